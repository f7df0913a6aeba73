package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/gfa2rdf/export"
	"github.com/c360studio/gfa2rdf/vocabulary/xsd"
)

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name     string
		lexical  string
		datatype string
		want     string
		wantOK   bool
	}{
		{"int plain", "42", xsd.Int, "42", true},
		{"int leading zeros", "007", xsd.Int, "7", true},
		{"int plus sign", "+5", xsd.Integer, "5", true},
		{"int negative zero", "-0", xsd.Long, "0", true},
		{"int negative", "-0012", xsd.Long, "-12", true},
		{"int garbage", "12a", xsd.Int, "", false},
		{"int decimal point", "1.0", xsd.Int, "", false},
		{"decimal plain", "1.50", xsd.Decimal, "1.5", true},
		{"decimal integer", "3", xsd.Decimal, "3.0", true},
		{"decimal leading dot", ".5", xsd.Decimal, "0.5", true},
		{"decimal negative zero", "-0.00", xsd.Decimal, "0.0", true},
		{"decimal exponent", "1e3", xsd.Decimal, "", false},
		{"double", "5", xsd.Double, "5.0E0", true},
		{"double exponent", "1.5e3", xsd.Double, "1.5E3", true},
		{"double small", "0.00025", xsd.Double, "2.5E-4", true},
		{"double zero", "0.0", xsd.Double, "0.0E0", true},
		{"double negative zero", "-0", xsd.Double, "-0.0E0", true},
		{"double overflow", "1e999", xsd.Double, "INF", true},
		{"double negative overflow", "-1e999", xsd.Double, "-INF", true},
		{"double inf", "INF", xsd.Double, "INF", true},
		{"double nan", "NaN", xsd.Double, "NaN", true},
		{"double garbage", "five", xsd.Double, "", false},
		{"float", "0.5", xsd.Float, "5.0E-1", true},
		{"float overflow", "1e39", xsd.Float, "INF", true},
		{"string", "5", xsd.String, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := export.NormalizeNumeric(tc.lexical, tc.datatype)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanonicalLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   export.Term
		want export.Term
	}{
		{"int becomes numeral", export.Literal("010", xsd.Int), export.Numeral("10")},
		{"double becomes numeral", export.Literal("2.50", xsd.Double), export.Numeral("2.5E0")},
		{"inf stays typed", export.Literal("INF", xsd.Double), export.Literal("INF", xsd.Double)},
		{"nan stays typed", export.Literal("NaN", xsd.Float), export.Literal("NaN", xsd.Float)},
		{"invalid stays as written", export.Literal("x1", xsd.Int), export.Literal("x1", xsd.Int)},
		{"string untouched", export.StringLiteral("ACGT"), export.StringLiteral("ACGT")},
		{"iri untouched", export.IRI("http://example.org/"), export.IRI("http://example.org/")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, export.CanonicalLiteral(tc.in))
		})
	}
}

func TestIntLiteral(t *testing.T) {
	assert.Equal(t, export.Literal("0", xsd.Int), export.IntLiteral(0))
	assert.Equal(t, export.Literal("-2147483648", xsd.Int), export.IntLiteral(-2147483648))
	assert.Equal(t, export.Literal("2147483646", xsd.Int), export.IntLiteral(2147483646))
	assert.Equal(t, export.Literal("2147483647", xsd.Long), export.IntLiteral(2147483647))
	assert.Equal(t, export.Literal("9000000000", xsd.Long), export.IntLiteral(9000000000))
}
