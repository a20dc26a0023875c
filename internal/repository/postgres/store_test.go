package postgres

import (
	"testing"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_QuotesTable(t *testing.T) {
	s := New(nil, `unma"registrations`)
	assert.Equal(t, `SELECT id, doc FROM "unma""registrations" ORDER BY id`, s.selectAll)
	assert.Equal(t, `SELECT id, doc FROM "unma""registrations" WHERE id = $1`, s.selectOne)
}

func TestDecodeRow(t *testing.T) {
	t.Run("id comes from the column", func(t *testing.T) {
		doc := []byte(`{"id": "000000000000000000000000", "name": "Anil",
			"transportation": {"isTravelling": true, "readyToShare": true, "vehicleCapacity": 4, "postalCode": "682001"}}`)

		rec, err := decodeRow("65a1f0c2e4b0a1b2c3d4e502", doc)
		require.NoError(t, err)
		assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e502", rec.ID.Hex())
		assert.Equal(t, "Anil", rec.Name)
		assert.Equal(t, 4, rec.Transportation.VehicleCapacity)
		assert.Equal(t, "682001", rec.Transportation.PostalCode)
	})

	t.Run("bad id", func(t *testing.T) {
		_, err := decodeRow("42", []byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("bad document", func(t *testing.T) {
		_, err := decodeRow("65a1f0c2e4b0a1b2c3d4e502", []byte(`[1, 2`))
		assert.Error(t, err)
	})
}

type fakeRows struct {
	ids  []string
	docs []string
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.ids)
}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.ids[r.pos-1]
	*dest[1].(*[]byte) = []byte(r.docs[r.pos-1])
	return nil
}

func (r *fakeRows) Err() error { return nil }

func TestCollect(t *testing.T) {
	t.Run("filters in row order", func(t *testing.T) {
		rows := &fakeRows{
			ids: []string{"65a1f0c2e4b0a1b2c3d4e501", "65a1f0c2e4b0a1b2c3d4e502", "65a1f0c2e4b0a1b2c3d4e503"},
			docs: []string{
				`{"name": "A", "transportation": {"isTravelling": true}}`,
				`{"name": "B"}`,
				`{"name": "C", "transportation": {"isTravelling": true}}`,
			},
		}
		recs, err := collect(rows, models.Filter{Travelling: true})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "A", recs[0].Name)
		assert.Equal(t, "C", recs[1].Name)
	})

	t.Run("undecodable row fails the query", func(t *testing.T) {
		rows := &fakeRows{
			ids:  []string{"65a1f0c2e4b0a1b2c3d4e501", "65a1f0c2e4b0a1b2c3d4e502"},
			docs: []string{`{"name": "A"}`, `{"name": `},
		}
		recs, err := collect(rows, models.Filter{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "65a1f0c2e4b0a1b2c3d4e502")
		assert.Nil(t, recs)
	})

	t.Run("bad id fails the query", func(t *testing.T) {
		rows := &fakeRows{ids: []string{"row-7"}, docs: []string{`{}`}}
		_, err := collect(rows, models.Filter{})
		assert.Error(t, err)
	})
}
