package command

import (
	"strings"

	"tipctl/internal/command/dns"
	"tipctl/internal/command/domain"
	"tipctl/internal/command/email"
	"tipctl/internal/command/invoice"
	"tipctl/internal/command/product"
	"tipctl/internal/command/vps"
	"tipctl/internal/environment"
	"tipctl/internal/errors"
	"tipctl/internal/grammar"
	"tipctl/internal/words"
)

// Parser parses lines against one environment and matching policy.
// It keeps no state between lines.
type Parser struct {
	env    *environment.Resolver
	policy grammar.Policy
}

// NewParser creates a parser. A nil lookup reads the process environment.
func NewParser(lookup environment.Lookup, policy grammar.Policy) *Parser {
	return &Parser{
		env:    environment.NewResolver(lookup),
		policy: policy,
	}
}

// Parse parses line with the process environment and case-sensitive matching.
func Parse(line string) (Command, error) {
	return NewParser(nil, grammar.Policy{}).Parse(line)
}

// Parse turns one line into a Command.
func (p *Parser) Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, KeywordComment) {
		return Comment{Text: line}, nil
	}

	switch trimmed {
	case KeywordPing:
		return Ping{}, nil
	case KeywordAvailabilityZones, keywordAvailibilityZones:
		return AvailabilityZones{}, nil
	}

	w := words.New(trimmed)
	keyword, ok := w.Next()
	if !ok {
		return nil, errors.UnparseableLine(line)
	}
	r := grammar.NewReader(keyword, w, p.env, p.policy)

	switch keyword {
	case KeywordSleep:
		return parseSleep(r)
	case KeywordOnError:
		return parseOnError(r)
	case KeywordDNS:
		sub, err := dns.Parse(r)
		if err != nil {
			return nil, err
		}
		return DNS{Sub: sub}, nil
	case KeywordDomain:
		sub, err := domain.Parse(r)
		if err != nil {
			return nil, err
		}
		return Domain{Sub: sub}, nil
	case KeywordInvoice:
		sub, err := invoice.Parse(r)
		if err != nil {
			return nil, err
		}
		return Invoice{Sub: sub}, nil
	case KeywordProduct:
		sub, err := product.Parse(r)
		if err != nil {
			return nil, err
		}
		return Product{Sub: sub}, nil
	case KeywordVPS:
		sub, err := vps.Parse(r)
		if err != nil {
			return nil, err
		}
		return VPS{Sub: sub}, nil
	case KeywordEmailBox:
		sub, err := email.Parse[string](r, email.StringID)
		if err != nil {
			return nil, err
		}
		return EmailBox{Sub: sub}, nil
	case KeywordEmailForward:
		sub, err := email.Parse[string](r, email.StringID)
		if err != nil {
			return nil, err
		}
		return EmailForward{Sub: sub}, nil
	}

	return nil, errors.UnparseableLine(line).
		WithSuggestion("Start the line with one of: " + strings.Join(keywords(), ", "))
}

func parseSleep(r *grammar.Reader) (Command, error) {
	seconds, err := r.Uint("seconds")
	if err != nil {
		return nil, err
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return Sleep{Seconds: seconds}, nil
}

func parseOnError(r *grammar.Reader) (Command, error) {
	modes := make([]string, len(OnErrorModes))
	for i, mode := range OnErrorModes {
		modes[i] = string(mode)
	}

	mode, err := r.Enum("mode", "onerror mode", modes...)
	if err != nil {
		return nil, err
	}
	if err := r.Done(); err != nil {
		return nil, err
	}
	return OnError{Mode: OnErrorMode(mode)}, nil
}

func keywords() []string {
	return []string{
		KeywordPing, KeywordAvailabilityZones, KeywordSleep, KeywordOnError,
		KeywordDNS, KeywordDomain, KeywordInvoice, KeywordProduct, KeywordVPS,
		KeywordEmailBox, KeywordEmailForward,
	}
}
