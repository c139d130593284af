package fb2

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<?xml version="1.0" encoding="utf-8"?>
<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0"><description><title-info><book-title>War</book-title></title-info></description><body><p>text</p></body></FictionBook>`

const sampleHeader = `<?xml version="1.0" encoding="utf-8"?>
<FictionBook xmlns="http://www.gribuser.ru/xml/fictionbook/2.0"><description><title-info><book-title>War</book-title></title-info></description></FictionBook>`

func TestLoadHeader(t *testing.T) {
	header, err := LoadHeader(strings.NewReader(sampleDocument), 0)
	require.NoError(t, err)
	assert.Equal(t, sampleHeader, string(header))
}

func TestLoadHeader_BOM(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "without BOM",
			input: []byte(sampleDocument),
		},
		{
			name:  "with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, sampleDocument...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, err := LoadHeader(bytes.NewReader(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, sampleHeader, string(header))
		})
	}
}

func TestLoadHeader_BOMAcrossShortReads(t *testing.T) {
	// The first chunk is always filled before the BOM check, so a reader that
	// hands out one byte at a time still has its BOM removed.
	input := append([]byte{0xEF, 0xBB, 0xBF}, sampleDocument...)

	header, err := LoadHeader(iotest.OneByteReader(bytes.NewReader(input)), 0)
	require.NoError(t, err)
	assert.Equal(t, sampleHeader, string(header))
}

func TestLoadHeader_BOMOutsideFirstChunkIsKept(t *testing.T) {
	padding := strings.Repeat(" ", ChunkSize)
	input := append([]byte("<FictionBook><description>"+padding), 0xEF, 0xBB, 0xBF)
	input = append(input, "</description></FictionBook>"...)

	header, err := LoadHeader(bytes.NewReader(input), 0)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(header, []byte{0xEF, 0xBB, 0xBF}))
}

func TestLoadHeader_TagStraddlesChunkBoundary(t *testing.T) {
	prefix := "<FictionBook><description>"
	// Put the closing tag at offset 120 so it spans the first two chunks.
	prefix += strings.Repeat("x", 120-len(prefix))
	require.Len(t, prefix, 120)
	input := prefix + "</description><body>" + strings.Repeat("y", 500) + "</body></FictionBook>"

	t.Run("full reads", func(t *testing.T) {
		header, err := LoadHeader(strings.NewReader(input), 0)
		require.NoError(t, err)
		assert.Equal(t, prefix+"</description></FictionBook>", string(header))
	})

	t.Run("one byte reads", func(t *testing.T) {
		header, err := LoadHeader(iotest.OneByteReader(strings.NewReader(input)), 0)
		require.NoError(t, err)
		assert.Equal(t, prefix+"</description></FictionBook>", string(header))
	})
}

func TestLoadHeader_TagAfterManyChunks(t *testing.T) {
	prefix := "<FictionBook><description>" + strings.Repeat("<p>filler</p>", 200)
	input := prefix + "</description><body/></FictionBook>"

	header, err := LoadHeader(strings.NewReader(input), 0)
	require.NoError(t, err)
	assert.Equal(t, prefix+"</description></FictionBook>", string(header))
}

func TestLoadHeader_NoHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "<FictionBook>"},
		{"truncated", "<FictionBook><description><title-info>" + strings.Repeat("z", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, err := LoadHeader(strings.NewReader(tt.input), 0)
			assert.Nil(t, header)
			assert.ErrorIs(t, err, ErrNoHeader)
		})
	}
}

func TestLoadHeader_Limit(t *testing.T) {
	input := "<FictionBook><description>" + strings.Repeat("z", 1000) + "</description></FictionBook>"

	_, err := LoadHeader(strings.NewReader(input), 256)
	assert.ErrorIs(t, err, ErrHeaderTooLarge)

	header, err := LoadHeader(strings.NewReader(input), 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(header), "</description></FictionBook>"))
}

func TestLoadHeader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := LoadHeader(iotest.ErrReader(boom), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
