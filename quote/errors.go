package quote

import (
	"errors"

	"github.com/krazyTry/kliquidity-go/prices"
)

var (
	ErrMissingPrice     = prices.ErrMissingPrice
	ErrMissingPool      = errors.New("missing pool data")
	ErrMissingDecimals  = errors.New("missing reward token decimals")
	ErrInvalidRange     = errors.New("lower index must be below upper index")
	ErrInvalidSqrtPrice = errors.New("sqrt price must be positive")
)
