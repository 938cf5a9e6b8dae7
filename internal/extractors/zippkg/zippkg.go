// Package zippkg reads members of zip-based document packages under a
// resource budget.
package zippkg

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// Package is an opened zip container.
type Package struct {
	reader *zip.Reader
	byName map[string]*zip.File
	budget *domain.Budget
}

// Open opens content as a zip package. A nil budget means unlimited.
func Open(content []byte, budget *domain.Budget) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %v", domain.ErrCorruptInput, err)
	}
	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &Package{reader: zr, byName: byName, budget: budget}, nil
}

// Files returns the members in archive order.
func (p *Package) Files() []*zip.File {
	return p.reader.File
}

// Has reports whether the package contains a member.
func (p *Package) Has(name string) bool {
	_, ok := p.byName[strings.TrimPrefix(name, "/")]
	return ok
}

// Read returns the decompressed bytes of a member.
// A missing member wraps domain.ErrNotFound.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.byName[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return ReadFile(f, p.budget)
}

// ReadFile decompresses a zip member, charging its size to the budget.
// Reading stops as soon as the budget is exhausted.
func ReadFile(f *zip.File, budget *domain.Budget) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrCorruptInput, f.Name, err)
	}
	defer rc.Close()

	return ReadAll(rc, f.Name, budget)
}

// ReadAll reads r to the end, charging the bytes read to the budget.
func ReadAll(r io.Reader, name string, budget *domain.Budget) ([]byte, error) {
	if budget != nil {
		r = io.LimitReader(r, budget.RemainingBytes()+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCorruptInput, name, err)
	}
	if budget != nil {
		if err := budget.ChargeBytes(int64(len(data))); err != nil {
			return nil, err
		}
	}
	return data, nil
}
