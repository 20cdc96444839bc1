package solana

import (
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Token is a decoded mint account. Token-2022 mints share the base layout.
type Token struct {
	token.Mint
	Address solana.PublicKey
	// Owner is the token program that owns the mint
	Owner solana.PublicKey
}

func (t *Token) IsToken2022() bool {
	return t.Owner.Equals(solana.Token2022ProgramID)
}

type TokenLayout struct {
}

// Decode reads the 82 byte base mint layout. token.Mint.Decode discards its
// result, so the decoder is driven directly.
func (l *TokenLayout) Decode(data []byte) (*Token, error) {
	if len(data) < token.MINT_SIZE {
		return nil, fmt.Errorf("mint: insufficient data: expected %d bytes, got %d", token.MINT_SIZE, len(data))
	}
	mint := token.Mint{}
	if err := mint.UnmarshalWithDecoder(binary.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return &Token{Mint: mint}, nil
}
