package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/colloquy/internal/adapters/file"
	"github.com/aretw0/colloquy/internal/compiler"
	"github.com/aretw0/colloquy/internal/validator"
	"github.com/aretw0/colloquy/pkg/nodes"
)

// Validate compiles every conversation under path and reports its issues to
// w, one per line. It fails when a document does not compile or when any
// conversation has error-level issues; warnings alone pass.
func Validate(ctx context.Context, path string, catalog *nodes.Catalog, w io.Writer) error {
	if catalog == nil {
		catalog = nodes.Standard()
	}
	loader, err := file.NewLoader(path, compiler.New(compiler.WithCatalog(catalog)))
	if err != nil {
		return err
	}
	ids, err := loader.List(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, id := range ids {
		conv, err := loader.Load(ctx, id)
		if err != nil {
			return err
		}
		report := validator.Validate(conv, catalog)
		for _, issue := range report.Issues {
			fmt.Fprintf(w, "%s: %s\n", id, issue)
		}
		if len(report.Errors()) > 0 {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversations have errors", failed, len(ids))
	}
	fmt.Fprintf(w, "%d conversation(s) checked, no errors\n", len(ids))
	return nil
}
