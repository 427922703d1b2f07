// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultIsPending(t *testing.T) {
	r := NewResult("/data/nesachim/6638-45.pdf")

	assert.Equal(t, ResultPending, r.Status())
	assert.Equal(t, "6638-45.pdf", r.FileName)
	assert.False(t, r.HasError())
	assert.True(t, r.Data.IsEmpty())
}

func TestResultTransitions(t *testing.T) {
	tests := []struct {
		name       string
		first      func(*Result) error
		wantStatus ResultStatus
		wantErr    bool
	}{
		{
			name:       "set data",
			first:      func(r *Result) error { return r.SetData(Record{General: map[string]string{"gush": "6638"}}) },
			wantStatus: ResultSuccess,
		},
		{
			name:       "set error",
			first:      func(r *Result) error { return r.SetError("לא ניתן לחלץ טקסט מהקובץ") },
			wantStatus: ResultFailed,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult("a.pdf")
			require.NoError(t, tt.first(r))
			assert.Equal(t, tt.wantStatus, r.Status())
			assert.Equal(t, tt.wantErr, r.HasError())

			// Terminal: both transitions are now rejected and state is unchanged.
			err := r.SetData(Record{General: map[string]string{"helka": "1"}})
			assert.True(t, errors.Is(err, ErrResultFinalized))
			err = r.SetError("again")
			assert.True(t, errors.Is(err, ErrResultFinalized))
			assert.Equal(t, tt.wantStatus, r.Status())
			assert.NotContains(t, r.Data.General, "helka")
		})
	}
}

func TestSetErrorRejectsEmptyMessage(t *testing.T) {
	r := NewResult("/x/a.pdf")

	err := r.SetError("")
	assert.True(t, errors.Is(err, ErrEmptyMessage))
	assert.Equal(t, ResultPending, r.Status())

	require.NoError(t, r.SetError("boom"))
	restored := RestoreResult(r.Path, r.FileName, r.Data, r.Error)
	assert.True(t, restored.HasError())
	assert.Equal(t, "boom", restored.Error)
}

func TestRestoreResult(t *testing.T) {
	ok := RestoreResult("/x/a.pdf", "a.pdf", Record{General: map[string]string{"gush": "1"}}, "")
	assert.Equal(t, ResultSuccess, ok.Status())
	assert.Equal(t, "1", ok.Data.General["gush"])

	failed := RestoreResult("/x/b.pdf", "b.pdf", Record{General: map[string]string{"gush": "1"}}, "boom")
	assert.True(t, failed.HasError())
	assert.True(t, failed.Data.IsEmpty())
}

func TestRecordKeys(t *testing.T) {
	r := Record{
		General: map[string]string{"gush": "6638", "date": "01/02/2023"},
		Owners:  []OwnerEntry{{Name: "א"}},
	}
	assert.Equal(t, []string{"date", "gush", "owners"}, r.Keys())
	assert.Empty(t, Record{}.Keys())
}

func TestRecordGroupAttr(t *testing.T) {
	r := Record{
		Owners: []OwnerEntry{
			{Name: "א", IDNumber: "123456782", IDType: IDPersonal, Share: "1/2"},
			{Name: "ב", Share: "1/2"},
		},
		Mortgages: []MortgageEntry{{Holder: "בנק לאומי", Rank: "ראשונה", Amount: "500,000"}},
		Remarks:   []RemarkEntry{{Type: "הערת אזהרה", Content: "כהן משה"}},
	}

	tests := []struct {
		group  FieldGroup
		attr   string
		want   []string
		wantOK bool
	}{
		{GroupOwners, "name", []string{"א", "ב"}, true},
		{GroupOwners, "id", []string{"123456782", ""}, true},
		{GroupOwners, "id_type", []string{"ת.ז", ""}, true},
		{GroupOwners, "nickname", nil, false},
		{GroupMortgages, "rank", []string{"ראשונה"}, true},
		{GroupRemarks, "content", []string{"כהן משה"}, true},
		{GroupGeneral, "gush", nil, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.group)+"/"+tt.attr, func(t *testing.T) {
			got, ok := r.GroupAttr(tt.group, tt.attr)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
