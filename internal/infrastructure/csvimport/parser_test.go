package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, p *Parser) ([]*Row, []RowError) {
	t.Helper()
	var (
		rows []*Row
		errs []RowError
	)
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			return rows, errs
		}
		var rowErr RowError
		if errors.As(err, &rowErr) {
			errs = append(errs, rowErr)
			continue
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestNewParser(t *testing.T) {
	t.Run("normalizes headers and strips BOM", func(t *testing.T) {
		p, err := NewParser(strings.NewReader(utf8BOM + " Name ,EMAIL,Phone\nAlice,alice@example.com,555\n"))
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "email", "phone"}, p.Headers())
		assert.True(t, p.HasHeader("Email"))
		assert.False(t, p.HasHeader("address"))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("name\n\xff\xfe\xfd\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("header only with blank names", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(",,\n"))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("name;email\nBob;bob@example.com\n"), WithDelimiter(';'))
		require.NoError(t, err)
		rows, errs := readAll(t, p)
		require.Empty(t, errs)
		require.Len(t, rows, 1)
		assert.Equal(t, "bob@example.com", rows[0].Get("email"))
	})

	t.Run("long file with multibyte text", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("name\n")
		for b.Len() < 3*sniffSize {
			b.WriteString("Zoë Brontë\n")
		}
		_, err := NewParser(strings.NewReader(b.String()))
		assert.NoError(t, err)
	})
}

func TestParser_RequireHeaders(t *testing.T) {
	p, err := NewParser(strings.NewReader("Email,Phone\n"))
	require.NoError(t, err)

	err = p.RequireHeaders("name", "email", "address")
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"name", "address"}, missing.Columns)
	assert.Contains(t, err.Error(), "name, address")

	assert.NoError(t, p.RequireHeaders("EMAIL"))
}

func TestParser_Next(t *testing.T) {
	input := "name,email,address\n" +
		"Alice,alice@example.com,\"1 Press Lane,\nLondon\"\n" +
		",,\n" +
		"Bob\n" +
		"Carol,carol@example.com,x,extra\n"

	p, err := NewParser(strings.NewReader(input))
	require.NoError(t, err)

	rows, errs := readAll(t, p)
	require.Empty(t, errs)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "1 Press Lane,\nLondon", rows[0].Get("address"))

	assert.Equal(t, 5, rows[1].Line)
	assert.Equal(t, "Bob", rows[1].Get("name"))
	assert.Empty(t, rows[1].Get("email"))

	assert.Equal(t, 6, rows[2].Line)
	assert.Equal(t, "Carol", rows[2].Get("NAME"))
}

func TestErrors(t *testing.T) {
	errs := NewErrors(2)
	assert.False(t, errs.HasErrors())

	errs.Add(NewRowError(2, "name", ErrCodeRequiredField, "name is required"))
	errs.Add(NewRowError(3, "", ErrCodeMalformedRow, "bad quote"))
	errs.Add(NewRowError(4, "email", ErrCodeInvalidFormat, "not an email"))

	assert.True(t, errs.HasErrors())
	assert.True(t, errs.Truncated())
	assert.Equal(t, 3, errs.Total())
	require.Len(t, errs.Items(), 2)
	assert.Equal(t, `line 2, column "name": name is required`, errs.Items()[0].Error())
	assert.Equal(t, "line 3: bad quote", errs.Items()[1].Error())

	assert.Equal(t, DefaultMaxErrors, NewErrors(0).max)
}
