// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns the text of a land-registry extract into a
// structured record using pattern matching. Extraction runs in four
// independent phases (general, owners, mortgages, remarks); a failure in one
// phase never affects the others.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// DefaultMaxTextBytes caps the text handed to the phases.
const DefaultMaxTextBytes = 4 << 20

// Field IDs of the group attributes.
const (
	fieldOwnerName     = "owner_name"
	fieldOwnerID       = "owner_id"
	fieldOwnerIDType   = "owner_id_type"
	fieldOwnerShare    = "owner_share"
	fieldMortgageHold  = "mortgage_holder"
	fieldMortgageAmt   = "mortgage_amount"
	fieldMortgageRank  = "mortgage_rank"
	fieldRemarkType    = "remark_type"
	fieldRemarkContent = "remark_content"
)

// phase is one independent extraction step. ids gates the phase: it runs
// only when the selection contains at least one of them.
type phase struct {
	name string
	ids  []string
	run  func(text string, sel fields.Selection) types.Record
}

// Extractor applies a pattern set to document text. It is safe for
// concurrent use.
type Extractor struct {
	patterns *Patterns
	maxText  int
	logger   *slog.Logger
	phases   []phase
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPatterns replaces the built-in patterns.
func WithPatterns(p *Patterns) Option {
	return func(e *Extractor) {
		if p != nil {
			e.patterns = p
		}
	}
}

// WithMaxTextBytes sets the text cap. Values <= 0 keep the default.
func WithMaxTextBytes(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxText = n
		}
	}
}

// WithLogger sets the logger used to report phase failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Extractor. The catalog supplies the field IDs of each
// group, which decide when a phase runs.
func New(catalog *fields.Catalog, opts ...Option) *Extractor {
	e := &Extractor{
		patterns: DefaultPatterns(),
		maxText:  DefaultMaxTextBytes,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}

	e.phases = []phase{
		{name: string(types.GroupGeneral), ids: catalog.GroupIDs(types.GroupGeneral), run: e.general},
		{name: groupOwners, ids: catalog.GroupIDs(types.GroupOwners), run: e.owners},
		{name: groupMortgages, ids: catalog.GroupIDs(types.GroupMortgages), run: e.mortgages},
		{name: groupRemarks, ids: catalog.GroupIDs(types.GroupRemarks), run: e.remarks},
	}
	return e
}

// Extract returns the record for text, holding only the selected fields.
// It never fails: a phase that panics is logged and contributes nothing,
// and a cancelled context stops the remaining phases.
func (e *Extractor) Extract(ctx context.Context, text string, sel fields.Selection) types.Record {
	var rec types.Record
	if text == "" || sel.IsEmpty() {
		return rec
	}

	text = Normalize(truncateUTF8(text, e.maxText))

	for _, p := range e.phases {
		if ctx.Err() != nil {
			e.logger.Warn("extraction cancelled", "phase", p.name, "error", ctx.Err())
			break
		}
		if !sel.Intersects(p.ids) {
			continue
		}
		contribution, err := e.runPhase(p, text, sel)
		if err != nil {
			e.logger.Error("extraction phase failed", "phase", p.name, "error", err)
			continue
		}
		merge(&rec, contribution)
	}
	return rec
}

// runPhase isolates a phase: a panic inside it becomes an error and its
// partial output is discarded.
func (e *Extractor) runPhase(p phase, text string, sel fields.Selection) (rec types.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = types.Record{}
			err = fmt.Errorf("phase %s: %v", p.name, r)
		}
	}()
	return p.run(text, sel), nil
}

func merge(dst *types.Record, src types.Record) {
	if len(src.General) > 0 {
		if dst.General == nil {
			dst.General = make(map[string]string, len(src.General))
		}
		for k, v := range src.General {
			dst.General[k] = v
		}
	}
	if len(src.Owners) > 0 {
		dst.Owners = src.Owners
	}
	if len(src.Mortgages) > 0 {
		dst.Mortgages = src.Mortgages
	}
	if len(src.Remarks) > 0 {
		dst.Remarks = src.Remarks
	}
}

func (e *Extractor) general(text string, sel fields.Selection) types.Record {
	var rec types.Record
	for _, id := range sel.IDs() {
		re, ok := e.patterns.General[id]
		if !ok || re == nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if rec.General == nil {
			rec.General = make(map[string]string)
		}
		rec.General[id] = strings.TrimSpace(m[1])
	}
	return rec
}

func (e *Extractor) owners(text string, sel fields.Selection) types.Record {
	section, ok := e.patterns.Owners.Section.Locate(text)
	if !ok {
		return types.Record{}
	}
	var owners []types.OwnerEntry
	EachEntry(e.patterns.Owners.Entry, section, func(g []string) {
		name, idNumber, share := g[0], g[1], g[2]
		var o types.OwnerEntry
		if sel.Has(fieldOwnerName) {
			o.Name = name
		}
		if sel.Has(fieldOwnerID) {
			o.IDNumber = idNumber
		}
		if sel.Has(fieldOwnerIDType) {
			o.IDType = ClassifyID(idNumber)
		}
		if sel.Has(fieldOwnerShare) {
			o.Share = share
		}
		owners = append(owners, o)
	})
	return types.Record{Owners: owners}
}

func (e *Extractor) mortgages(text string, sel fields.Selection) types.Record {
	section, ok := e.patterns.Mortgages.Section.Locate(text)
	if !ok {
		return types.Record{}
	}
	var mortgages []types.MortgageEntry
	EachEntry(e.patterns.Mortgages.Entry, section, func(g []string) {
		holder, rank, amount := g[0], g[1], g[2]
		var m types.MortgageEntry
		if sel.Has(fieldMortgageHold) {
			m.Holder = holder
		}
		if sel.Has(fieldMortgageRank) {
			m.Rank = rank
		}
		if sel.Has(fieldMortgageAmt) {
			m.Amount = amount
		}
		mortgages = append(mortgages, m)
	})
	return types.Record{Mortgages: mortgages}
}

func (e *Extractor) remarks(text string, sel fields.Selection) types.Record {
	section, ok := e.patterns.Remarks.Section.Locate(text)
	if !ok {
		return types.Record{}
	}
	var remarks []types.RemarkEntry
	EachEntry(e.patterns.Remarks.Entry, section, func(g []string) {
		kind, content := g[0], g[1]
		var r types.RemarkEntry
		if sel.Has(fieldRemarkType) {
			r.Type = kind
		}
		if sel.Has(fieldRemarkContent) {
			r.Content = content
		}
		remarks = append(remarks, r)
	})
	return types.Record{Remarks: remarks}
}
