package extractors

import (
	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/extractors/archive"
	"github.com/custodia-labs/attachtext/internal/extractors/bytecode"
	"github.com/custodia-labs/attachtext/internal/extractors/markup"
	"github.com/custodia-labs/attachtext/internal/extractors/msoffice"
	"github.com/custodia-labs/attachtext/internal/extractors/ooxml"
	"github.com/custodia-labs/attachtext/internal/extractors/opendocument"
	"github.com/custodia-labs/attachtext/internal/extractors/pdf"
	"github.com/custodia-labs/attachtext/internal/extractors/plaintext"
)

// RegisterDefaults registers all built-in extractors with the registry.
// Call this during application initialisation to enable the standard formats.
// The plain text extractor uses the configured default charset.
func RegisterDefaults(r *Registry, settings domain.TextSettings) error {
	var opts []plaintext.Option
	if settings.DefaultCharset != "" {
		opts = append(opts, plaintext.WithDefaultCharset(settings.DefaultCharset))
	}
	text, err := plaintext.New(opts...)
	if err != nil {
		return err
	}

	r.Register(text)
	r.Register(msoffice.New())
	r.Register(ooxml.New())
	r.Register(opendocument.New())
	r.Register(pdf.New())
	r.Register(markup.New())
	r.Register(archive.New())
	r.Register(bytecode.New())
	return nil
}
