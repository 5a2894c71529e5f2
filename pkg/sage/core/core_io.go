package core

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/sambeau/sage/pkg/sage/errors"
	"github.com/sambeau/sage/pkg/sage/types"
)

// installIOBuiltins wires the one required filesystem builtin, slurp, plus
// its gzip-transparent extension: a path ending in .gz is decompressed on
// the way in, so a script can load-file a compressed source file exactly
// as it would an uncompressed one.
func installIOBuiltins(env *types.Env) {
	set(env, "slurp", func(ctx types.Context, args []types.Value) (types.Value, error) {
		if err := checkArity("slurp", args, 1); err != nil {
			return nil, err
		}
		path, ok := args[0].(*types.String)
		if !ok {
			return nil, errors.New(errors.ClassType, "slurp requires a string path")
		}

		f, err := os.Open(path.Value)
		if err != nil {
			return nil, errors.New(errors.ClassIO, "slurp: "+err.Error())
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(path.Value, ".gz") {
			gz, err := gzip.NewReader(f)
			if err != nil {
				return nil, errors.New(errors.ClassIO, "slurp: "+err.Error())
			}
			defer gz.Close()
			r = gz
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.New(errors.ClassIO, "slurp: "+err.Error())
		}
		return &types.String{Value: string(data)}, nil
	})
}
