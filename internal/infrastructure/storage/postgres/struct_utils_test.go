package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"leafbook/internal/core/entity"
)

type mockRecord struct {
	entity.BaseRecord
	Code string  `db:"code" json:"code"`
	Name string  `db:"name" json:"name"`
	Note *string `db:"note" json:"note,omitempty"`
}

func TestExtractDBColumnsIncludesEmbedded(t *testing.T) {
	cols := ExtractDBColumns[mockRecord]()

	expected := []string{"id", "version", "created_at", "updated_at", "code", "name", "note"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
}

func TestStructToMap(t *testing.T) {
	rec := mockRecord{
		BaseRecord: entity.NewBaseRecord(),
		Code:       "FRM-2026-00001",
		Name:       "Ramesh Patel",
	}
	rec.UpdatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, rec.UpdatedAt, m["updated_at"])
	assert.Equal(t, "FRM-2026-00001", m["code"])
	assert.Equal(t, "Ramesh Patel", m["name"])
	assert.Equal(t, (*string)(nil), m["note"])
}
