package core

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"

	"github.com/sambeau/sage/pkg/sage/errors"
	"github.com/sambeau/sage/pkg/sage/types"
)

// installTimeBuiltins adds a small date/time namespace beyond the required
// builtin set: time-now/time-parse round-trip through RFC3339 strings (the
// language has no dedicated Time value, so a String is the carrier), and
// time-format renders a parsed moment with locale-aware month/weekday
// names, which a bootstrap script can use for anything from log timestamps
// to a "good morning" greeting in the user's language.
func installTimeBuiltins(env *types.Env) {
	set(env, "time-now", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("time-now", args, 0); err != nil {
			return nil, err
		}
		return &types.String{Value: time.Now().UTC().Format(time.RFC3339)}, nil
	})

	set(env, "time-parse", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("time-parse", args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(*types.String)
		if !ok {
			return nil, errors.New(errors.ClassType, "time-parse requires a string")
		}
		t, err := dateparse.ParseAny(s.Value)
		if err != nil {
			return nil, errors.New(errors.ClassFormat, "time-parse: "+err.Error())
		}
		return &types.String{Value: t.UTC().Format(time.RFC3339)}, nil
	})

	set(env, "time-format", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("time-format", args, 1); err != nil {
			return nil, err
		}
		s, ok := args[0].(*types.String)
		if !ok {
			return nil, errors.New(errors.ClassType, "time-format requires a time string")
		}
		t, err := time.Parse(time.RFC3339, s.Value)
		if err != nil {
			return nil, errors.New(errors.ClassFormat, "time-format: "+err.Error())
		}

		locale := monday.LocaleEnUS
		if len(args) > 1 {
			kw, ok := args[1].(*types.Keyword)
			if !ok {
				return nil, errors.New(errors.ClassType, "time-format locale must be a keyword")
			}
			locale, err = localeByName(kw.PlainName())
			if err != nil {
				return nil, err
			}
		}

		return &types.String{Value: monday.Format(t, monday.LongDateTimeFormat, locale)}, nil
	})
}

func localeByName(name string) (monday.Locale, error) {
	switch name {
	case "en":
		return monday.LocaleEnUS, nil
	case "fr":
		return monday.LocaleFrFR, nil
	case "de":
		return monday.LocaleDeDE, nil
	case "es":
		return monday.LocaleEsES, nil
	case "it":
		return monday.LocaleItIT, nil
	case "pt":
		return monday.LocalePtBR, nil
	case "ru":
		return monday.LocaleRuRU, nil
	default:
		return "", errors.New(errors.ClassValue, "time-format: unknown locale "+name)
	}
}
