package domain

import (
	"strings"

	"github.com/fd1az/bestprice/internal/apperror"
)

// RequestTarget is a concrete request for one exchange.
type RequestTarget struct {
	URL    string
	Method string
}

// BuildRequestTarget resolves the descriptor endpoint for a crypto/fiat pair.
// Symbols are looked up case-insensitively. Fixed endpoints are returned
// unchanged whatever the symbols.
func BuildRequestTarget(d *Descriptor, crypto, fiat string) (RequestTarget, error) {
	if d.CodeMap == nil {
		return RequestTarget{URL: d.EndpointTemplate, Method: d.Method()}, nil
	}

	cryptoCode, ok := d.CodeMap[strings.ToLower(crypto)]
	if !ok {
		return RequestTarget{}, apperror.New(apperror.CodeUnsupportedCurrency,
			apperror.WithContext(d.ID),
			apperror.WithMessage(d.DisplayName+" does not quote "+strings.ToUpper(crypto)))
	}
	fiatCode, ok := d.CodeMap[strings.ToLower(fiat)]
	if !ok {
		return RequestTarget{}, apperror.New(apperror.CodeUnsupportedCurrency,
			apperror.WithContext(d.ID),
			apperror.WithMessage(d.DisplayName+" does not quote "+strings.ToUpper(fiat)))
	}

	url := strings.NewReplacer(
		PlaceholderCrypto, cryptoCode,
		PlaceholderFiat, fiatCode,
	).Replace(d.EndpointTemplate)

	return RequestTarget{URL: url, Method: d.Method()}, nil
}

// TargetFor is BuildRequestTarget for a resolved pair.
func TargetFor(d *Descriptor, pair Pair) (RequestTarget, error) {
	return BuildRequestTarget(d, pair.Crypto.Code(), pair.Fiat.Code())
}
