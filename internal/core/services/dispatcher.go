package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/core/ports/driving"
	"github.com/custodia-labs/attachtext/internal/logger"
)

// Ensure Dispatcher implements the interfaces.
var (
	_ driving.ExtractionService = (*Dispatcher)(nil)
	_ driven.MemberExtractor    = (*Dispatcher)(nil)
)

// idNamespace scopes the name-based content IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/attachtext"))

// Dispatcher resolves the content type of each attachment, selects an
// extractor from the registry and runs the normalisation pipeline.
// It is safe for concurrent use; every call owns its own budget.
type Dispatcher struct {
	resolver driven.ContentTypeResolver
	registry driven.ExtractorRegistry
	pipeline driven.PostProcessorPipeline
	reporter driven.FailureReporter
	limits   domain.Limits
	workers  int
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLimits sets the resource limits for each extraction.
// Zero fields fall back to the defaults.
func WithLimits(limits domain.Limits) DispatcherOption {
	return func(d *Dispatcher) {
		d.limits = domain.NewBudget(limits).Limits()
	}
}

// WithWorkers sets the bulk extraction parallelism.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithReporter sets the receiver of soft failure events.
// A nil reporter discards them.
func WithReporter(reporter driven.FailureReporter) DispatcherOption {
	return func(d *Dispatcher) {
		d.reporter = reporter
	}
}

// NewDispatcher creates a new extraction dispatcher.
// A nil pipeline leaves extractor output untouched.
func NewDispatcher(
	resolver driven.ContentTypeResolver,
	registry driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	opts ...DispatcherOption,
) *Dispatcher {
	d := &Dispatcher{
		resolver: resolver,
		registry: registry,
		pipeline: pipeline,
		reporter: NewLogReporter(),
		limits:   domain.DefaultLimits(),
		workers:  domain.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Extract reads the source once, resolves its content type and returns the
// normalised text. Unsupported, corrupt and oversized attachments come back
// as content with empty text and a failure status.
func (d *Dispatcher) Extract(ctx context.Context, source domain.Source) (*domain.ExtractedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if source.Reader == nil {
		return nil, fmt.Errorf("%w: source %q has no reader", domain.ErrInvalidInput, source.Filename)
	}

	content, err := io.ReadAll(io.LimitReader(source.Reader, d.limits.MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrIOFailure, source.Filename, err)
	}

	declared, charset := parseDeclared(source.ContentType)
	att := &domain.Attachment{
		Filename:    source.Filename,
		ContentType: d.resolver.Resolve(source.Filename, declared, content),
		Charset:     charset,
		Content:     content,
	}

	if int64(len(content)) > d.limits.MaxInputBytes {
		err := fmt.Errorf("%w: input exceeds %d bytes", domain.ErrResourceLimitExceeded, d.limits.MaxInputBytes)
		return d.fail(ctx, att, "", 0, err)
	}

	out, err := d.extract(ctx, att, domain.NewBudget(d.limits), false)
	if err != nil {
		return nil, err
	}

	if d.pipeline != nil && !out.Status.Failed() {
		if err := d.pipeline.Process(ctx, out); err != nil {
			return nil, err
		}
		out.Status = textStatus(out.Text)
	}
	logger.Debug("extracted %s as %s: %s (%d bytes)", out.Filename, out.ContentType, out.Status, len(out.Text))
	return out, nil
}

// ExtractMember dispatches an archive member. Its content type comes from
// its name and bytes only. Corrupt and unsupported members yield empty text;
// resource limit errors propagate so the enclosing archive fails as a whole.
func (d *Dispatcher) ExtractMember(ctx context.Context, name string, content []byte, budget *domain.Budget) (*domain.ExtractedContent, error) {
	if budget == nil {
		budget = domain.NewBudget(d.limits)
	}
	att := &domain.Attachment{
		Filename:    name,
		ContentType: d.resolver.Resolve(name, "", content),
		Content:     content,
	}
	return d.extract(ctx, att, budget, true)
}

// ExtractBatch extracts sources in parallel with a bounded number of workers.
func (d *Dispatcher) ExtractBatch(ctx context.Context, sources []domain.Source) ([]domain.BatchItem, error) {
	items := make([]domain.BatchItem, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, source := range sources {
		g.Go(func() error {
			items[i].Filename = source.Filename
			content, err := d.Extract(gctx, source)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				items[i].Err = err
				return nil
			}
			items[i].Content = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// ResolveContentType returns the content type Extract would use.
func (d *Dispatcher) ResolveContentType(filename, declared string, prefix []byte) string {
	base, _ := parseDeclared(declared)
	return d.resolver.Resolve(filename, base, prefix)
}

// SupportedMIMETypes returns all content types with a registered extractor.
func (d *Dispatcher) SupportedMIMETypes() []string {
	return d.registry.SupportedMIMETypes()
}

// extract selects an extractor and absorbs soft failures. For archive
// members a resource limit error is returned to the enclosing archive.
func (d *Dispatcher) extract(ctx context.Context, att *domain.Attachment, budget *domain.Budget, member bool) (*domain.ExtractedContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extractor, ok := d.registry.Lookup(att.ContentType)
	var (
		res  *driven.ExtractResult
		err  error
		name string
	)
	if ok {
		name = extractor.Name()
		res, err = extractor.Extract(ctx, d.request(att, budget))
	} else {
		err = fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedFormat, att.ContentType)
	}

	if errors.Is(err, domain.ErrUnsupportedFormat) && domain.IsTextual(att.ContentType) {
		if text, ok := d.registry.Lookup(domain.MIMEPlainText); ok && text.Name() != name {
			logger.Debug("falling back to %s for %s (%s)", text.Name(), att.Filename, att.ContentType)
			name = text.Name()
			res, err = text.Extract(ctx, d.request(att, budget))
		}
	}

	if err != nil {
		if member && errors.Is(err, domain.ErrResourceLimitExceeded) {
			return nil, err
		}
		return d.fail(ctx, att, name, budget.Depth(), err)
	}

	return &domain.ExtractedContent{
		ID:          contentID(att.Filename, att.Content),
		Filename:    att.Filename,
		ContentType: att.ContentType,
		Text:        res.Text,
		Status:      textStatus(res.Text),
		Metadata:    res.Metadata,
	}, nil
}

func (d *Dispatcher) request(att *domain.Attachment, budget *domain.Budget) *driven.ExtractRequest {
	return &driven.ExtractRequest{Attachment: att, Budget: budget, Members: d}
}

// fail turns a soft failure into empty content and reports it.
// Errors that are not soft failures are returned unchanged.
func (d *Dispatcher) fail(ctx context.Context, att *domain.Attachment, extractor string, depth int, err error) (*domain.ExtractedContent, error) {
	status, soft := domain.Classify(err)
	if !soft {
		return nil, err
	}

	if d.reporter != nil {
		d.reporter.Report(ctx, domain.FailureEvent{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Extractor:   extractor,
			Status:      status,
			Depth:       depth,
			Err:         err,
		})
	}

	return &domain.ExtractedContent{
		ID:          contentID(att.Filename, att.Content),
		Filename:    att.Filename,
		ContentType: att.ContentType,
		Status:      status,
	}, nil
}

// parseDeclared splits a declared content type into its base type and
// charset parameter.
func parseDeclared(contentType string) (string, string) {
	if strings.TrimSpace(contentType) == "" {
		return "", ""
	}
	base, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return domain.BaseMIMEType(contentType), ""
	}
	return base, params["charset"]
}

// contentID derives a stable ID from the filename and content digest.
func contentID(filename string, content []byte) string {
	sum := sha256.Sum256(content)
	var b bytes.Buffer
	b.WriteString(filename)
	b.WriteByte(0)
	b.WriteString(hex.EncodeToString(sum[:]))
	return uuid.NewSHA1(idNamespace, b.Bytes()).String()
}

func textStatus(text string) domain.Status {
	if text == "" {
		return domain.StatusEmpty
	}
	return domain.StatusExtracted
}
