package codec_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/jsastcodec/pkg/codec"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
)

func roundTrip(t *testing.T, root jsast.Node) (jsast.Node, []byte) {
	t.Helper()

	var buf bytes.Buffer

	n, err := codec.Encode(root, &buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)

	decoded, err := codec.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	return decoded, buf.Bytes()
}

func requireNumberEqual(t *testing.T, want, got jsast.Value) {
	t.Helper()

	wantNum, ok := want.(jsast.Number)
	require.True(t, ok)

	gotNum, ok := got.(jsast.Number)
	require.True(t, ok)

	require.Equal(t, math.Float64bits(wantNum.V), math.Float64bits(gotNum.V))
}

func TestEncodeDecodeEmptyScript(t *testing.T) {
	t.Parallel()

	root := jsast.NewScript(jsast.NewList(), jsast.NewList())

	decoded, _ := roundTrip(t, root)

	require.Equal(t, "Script", decoded.Kind())

	directives, ok := decoded.Property("directives")
	require.True(t, ok)
	require.Equal(t, jsast.List{}, directives)

	statements, ok := decoded.Property("statements")
	require.True(t, ok)
	require.Empty(t, statements.(jsast.List).Items)
}

func TestEncodeDecodeLiteralOne(t *testing.T) {
	t.Parallel()

	root := jsast.NewScript(
		jsast.NewList(),
		jsast.NewList(
			jsast.NewExpressionStatement(jsast.NewLiteralNumericExpression(1.0)),
		),
	)

	decoded, _ := roundTrip(t, root)

	statements, _ := decoded.Property("statements")
	items := statements.(jsast.List).Items
	require.Len(t, items, 1)

	stmt := items[0].(jsast.Node)
	expr, _ := stmt.Property("expression")
	lit := expr.(jsast.Node)
	val, _ := lit.Property("value")
	requireNumberEqual(t, jsast.Number{V: 1.0}, val)
}

func TestEncodeDecodeRepeatedIdentifierIntroducesNonterminal(t *testing.T) {
	t.Parallel()

	stmts := make([]jsast.Value, 10)
	for i := range stmts {
		stmts[i] = jsast.NewExpressionStatement(jsast.NewIdentifierExpression("x"))
	}

	root := jsast.NewScript(jsast.NewList(), jsast.NewList(stmts...))

	decoded, data := roundTrip(t, root)

	info, err := codec.Inspect(bytes.NewReader(data))
	require.NoError(t, err)
	require.GreaterOrEqual(t, info.MetaRuleCount, 1)
	require.Equal(t, []string{"x"}, info.StringPool)

	statements, _ := decoded.Property("statements")
	items := statements.(jsast.List).Items
	require.Len(t, items, 10)

	for _, item := range items {
		stmt := item.(jsast.Node)
		expr, _ := stmt.Property("expression")
		id := expr.(jsast.Node)
		require.Equal(t, "IdentifierExpression", id.Kind())

		name, _ := id.Property("name")
		require.Equal(t, jsast.String{V: "x"}, name)
	}
}

func TestEncodeDecodeListPreservesLengthAndOrder(t *testing.T) {
	t.Parallel()

	root := jsast.NewScript(
		jsast.NewList(),
		jsast.NewList(
			jsast.NewExpressionStatement(jsast.NewIdentifierExpression("a")),
			jsast.NewExpressionStatement(jsast.NewIdentifierExpression("b")),
			jsast.NewExpressionStatement(jsast.NewIdentifierExpression("c")),
		),
	)

	decoded, _ := roundTrip(t, root)

	statements, _ := decoded.Property("statements")
	items := statements.(jsast.List).Items
	require.Len(t, items, 3)

	want := []string{"a", "b", "c"}

	for i, item := range items {
		stmt := item.(jsast.Node)
		expr, _ := stmt.Property("expression")
		id := expr.(jsast.Node)
		name, _ := id.Property("name")
		require.Equal(t, jsast.String{V: want[i]}, name)
	}
}

func TestEncodeDecodePreservesNaNPayload(t *testing.T) {
	t.Parallel()

	const payload = 0x7ff8000000000001

	nan := math.Float64frombits(payload)

	root := jsast.NewScript(
		jsast.NewList(),
		jsast.NewList(
			jsast.NewExpressionStatement(jsast.NewLiteralNumericExpression(nan)),
		),
	)

	decoded, _ := roundTrip(t, root)

	statements, _ := decoded.Property("statements")
	items := statements.(jsast.List).Items
	stmt := items[0].(jsast.Node)
	expr, _ := stmt.Property("expression")
	lit := expr.(jsast.Node)
	val, _ := lit.Property("value")

	num := val.(jsast.Number)
	require.Equal(t, uint64(payload), math.Float64bits(num.V))
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	t.Parallel()

	root := jsast.NewScript(jsast.NewList(), jsast.NewList())

	var buf bytes.Buffer

	_, err := codec.Encode(root, &buf)
	require.NoError(t, err)

	corrupted := corruptBuiltinCount(t, buf.Bytes())

	_, err = codec.Decode(bytes.NewReader(corrupted))

	var codecErr *codec.Error
	require.ErrorAs(t, err, &codecErr)
	require.Equal(t, codec.VersionMismatch, codecErr.Kind)
}

// corruptBuiltinCount reads past the grammar-length prefix, the grammar
// JSON payload, and the parameter-count varuint, then overwrites the
// single-byte built-in count varuint with 7.
func corruptBuiltinCount(t *testing.T, data []byte) []byte {
	t.Helper()

	out := append([]byte(nil), data...)

	pos := 0

	grammarLen, n := readTestUvarint(t, out[pos:])
	pos += n
	pos += int(grammarLen)

	_, n = readTestUvarint(t, out[pos:]) // paramCount
	pos += n

	out[pos] = 7

	return out
}

func readTestUvarint(t *testing.T, b []byte) (uint64, int) {
	t.Helper()

	var (
		result uint64
		shift  uint
	)

	for i, c := range b {
		result |= uint64(c&0x7f) << shift

		if c&0x80 == 0 {
			return result, i + 1
		}

		shift += 7
	}

	t.Fatalf("truncated varuint in test fixture")

	return 0, 0
}

func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	root := jsast.NewScript(
		jsast.NewList(jsast.NewDirective("use strict")),
		jsast.NewList(
			jsast.NewVariableDeclarationStatement(
				jsast.NewVariableDeclaration("const", jsast.NewList(
					jsast.NewVariableDeclarator(jsast.NewBindingIdentifier("x"), jsast.NewLiteralNumericExpression(42)),
				)),
			),
		),
	)

	var first, second bytes.Buffer

	_, err := codec.Encode(root, &first)
	require.NoError(t, err)

	_, err = codec.Encode(root, &second)
	require.NoError(t, err)

	require.True(t, bytes.Equal(first.Bytes(), second.Bytes()))
}

func TestEncodeRejectsNonRootKind(t *testing.T) {
	t.Parallel()

	notRoot := jsast.NewIdentifierExpression("x")

	var buf bytes.Buffer

	_, err := codec.Encode(notRoot, &buf)

	var codecErr *codec.Error
	require.ErrorAs(t, err, &codecErr)
	require.Equal(t, codec.UnexpectedRoot, codecErr.Kind)
}
