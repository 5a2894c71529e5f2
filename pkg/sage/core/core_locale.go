package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sambeau/sage/pkg/sage/errors"
	"github.com/sambeau/sage/pkg/sage/types"
)

// installLocaleBuiltins adds number-format, a locale-aware complement to
// time-format: scripts that print a greeting in the user's language often
// also need to print a quantity in it (1,234.5 vs 1.234,5), and Number's
// plain Inspect/str rendering has no notion of grouping or decimal marks.
func installLocaleBuiltins(env *types.Env) {
	set(env, "number-format", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArityAtLeast("number-format", args, 1); err != nil {
			return nil, err
		}
		n, err := asNumber(args[0])
		if err != nil {
			return nil, err
		}

		tag := language.AmericanEnglish
		if len(args) > 1 {
			kw, ok := args[1].(*types.Keyword)
			if !ok {
				return nil, errors.New(errors.ClassType, "number-format locale must be a keyword")
			}
			tag, err = languageByName(kw.PlainName())
			if err != nil {
				return nil, err
			}
		}

		p := message.NewPrinter(tag)
		return &types.String{Value: p.Sprintf("%v", number.Decimal(n))}, nil
	})
}

func languageByName(name string) (language.Tag, error) {
	switch name {
	case "en":
		return language.AmericanEnglish, nil
	case "en-gb":
		return language.BritishEnglish, nil
	case "fr":
		return language.French, nil
	case "de":
		return language.German, nil
	case "es":
		return language.Spanish, nil
	case "it":
		return language.Italian, nil
	case "pt":
		return language.Portuguese, nil
	case "ru":
		return language.Russian, nil
	default:
		return language.Tag{}, errors.New(errors.ClassValue, "number-format: unknown locale "+name)
	}
}
