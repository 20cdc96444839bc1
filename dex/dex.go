package dex

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDex = errors.New("unknown dex")

type Dex uint8

const (
	DexOrca    Dex = 0
	DexRaydium Dex = 1
	DexMeteora Dex = 2
)

func (d Dex) String() string {
	switch d {
	case DexOrca:
		return "ORCA"
	case DexRaydium:
		return "RAYDIUM"
	case DexMeteora:
		return "METEORA"
	default:
		return fmt.Sprintf("Dex(%d)", uint8(d))
	}
}

// DexFromNumber validates an on-chain strategy type byte.
func DexFromNumber(n uint64) (Dex, error) {
	if n > uint64(DexMeteora) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownDex, n)
	}
	return Dex(n), nil
}

func ParseDex(s string) (Dex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ORCA":
		return DexOrca, nil
	case "RAYDIUM":
		return DexRaydium, nil
	case "METEORA":
		return DexMeteora, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDex, s)
}
