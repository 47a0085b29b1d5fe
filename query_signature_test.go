package fndex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantName  string
		wantIndex int
		wantOK    bool
	}{
		{
			name:   "bare identifier",
			input:  "greeting",
			cursor: 8,
			wantOK: false,
		},
		{
			name:      "open call first arg",
			input:     "add(",
			cursor:    4,
			wantName:  "add",
			wantIndex: 0,
			wantOK:    true,
		},
		{
			name:      "second arg after comma",
			input:     "add(1, ",
			cursor:    7,
			wantName:  "add",
			wantIndex: 1,
			wantOK:    true,
		},
		{
			name:      "nested call targets inner function",
			input:     "concat(add(1, ",
			cursor:    14,
			wantName:  "add",
			wantIndex: 1,
			wantOK:    true,
		},
		{
			name:      "closed inner call targets outer function",
			input:     "concat(add(1, 2), ",
			cursor:    18,
			wantName:  "concat",
			wantIndex: 1,
			wantOK:    true,
		},
		{
			name:      "comma inside nested call not counted",
			input:     "if(equals(a, b), ",
			cursor:    17,
			wantName:  "if",
			wantIndex: 1,
			wantOK:    true,
		},
		{
			name:   "balanced call is not active",
			input:  "add(1, 2)",
			cursor: 9,
			wantOK: false,
		},
		{
			name:      "grouping paren skipped",
			input:     "add(1, (2 + 3",
			cursor:    13,
			wantName:  "add",
			wantIndex: 1,
			wantOK:    true,
		},
		{
			name:      "cursor mid-expression ignores text after it",
			input:     "add(1, 2)",
			cursor:    5,
			wantName:  "add",
			wantIndex: 0,
			wantOK:    true,
		},
		{
			name:      "identifier stops at non-alphanumeric",
			input:     "1+add(", // "1+" is not part of the name
			cursor:    6,
			wantName:  "add",
			wantIndex: 0,
			wantOK:    true,
		},
		{
			name:   "cursor past end is clamped",
			input:  "add(",
			cursor: 99,
			wantOK: true, wantName: "add", wantIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, idx, ok := detectCall(tt.input, tt.cursor)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, name)
				assert.Equal(t, tt.wantIndex, idx)
			}
		})
	}
}

func TestSignatureHelp_MarksActiveParameter(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("add(1, ", 7)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "add", info.Name)
	assert.Equal(t, "add(summand_1, summand_2)", info.Label)
	assert.Equal(t, 1, info.ActiveParam)
	assert.Equal(t, "summand_2", info.Label[info.ActiveStart:info.ActiveEnd])
}

func TestSignatureHelp_FirstArgument(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("add(", 4)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 0, info.ActiveParam)
	assert.Equal(t, "summand_1", info.Label[info.ActiveStart:info.ActiveEnd])
}

func TestSignatureHelp_CaseInsensitiveResolution(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("ADDDAYS('2018-01-01', ", 22)
	require.NoError(t, err)
	require.NotNil(t, info)
	// Resolution is case-insensitive; the label uses catalog casing.
	assert.Equal(t, "addDays", info.Name)
	assert.Equal(t, "addDays(timestamp, days, format)", info.Label)
	assert.Equal(t, "days", info.Label[info.ActiveStart:info.ActiveEnd])
}

func TestSignatureHelp_VariadicStaysActive(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	// The single variadic row stays active no matter how many arguments
	// are already present.
	info, err := q.SignatureHelp("and(true, false, true, ", 23)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 0, info.ActiveParam)
	assert.Equal(t, "and(expression_1, expression_2, ...)", info.Label)
	assert.Equal(t, "expression_1, expression_2, ...", info.Label[info.ActiveStart:info.ActiveEnd])
}

func TestSignatureHelp_BeyondLastParameter(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	// utcNow takes one optional, non-variadic parameter. A second
	// argument has nothing to point at, but the signature still shows.
	info, err := q.SignatureHelp("utcNow('x', ", 12)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "utcNow(format)", info.Label)
	assert.Equal(t, -1, info.ActiveParam)
	assert.Zero(t, info.ActiveStart)
	assert.Zero(t, info.ActiveEnd)
}

func TestSignatureHelp_NotInCall(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("add", 3)
	require.NoError(t, err)
	assert.Nil(t, info)

	info, err = q.SignatureHelp("add(1, 2)", 9)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSignatureHelp_UnknownFunction(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("noSuchFunction(1, ", 18)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSignatureHelp_NestedCallResolvesInnermost(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("concat(add(1, ", 14)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "add", info.Name)
	assert.Equal(t, 1, info.ActiveParam)
}

func TestSignatureHelp_DuplicateNameUsesFirst(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	info, err := q.SignatureHelp("item(", 5)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "item", info.Name)
	assert.Equal(t, "item()", info.Label)
	assert.Equal(t, -1, info.ActiveParam)
}
