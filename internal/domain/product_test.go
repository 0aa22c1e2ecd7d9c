package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMeasureUnit(t *testing.T) {
	tests := []struct {
		in     string
		want   MeasureUnit
		wantOK bool
	}{
		{"g", UnitGram, true},
		{"GR", UnitGram, true},
		{" kg ", UnitKilogram, true},
		{"ml", UnitMilliliter, true},
		{"L", UnitLiter, true},
		{"litre", UnitLiter, true},
		{"szt.", UnitPiece, true},
		{"pcs", UnitPiece, true},
		{"oz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMeasureUnit(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMeasureUnit_BaseUnit(t *testing.T) {
	assert.Equal(t, UnitGram, UnitKilogram.BaseUnit())
	assert.Equal(t, UnitMilliliter, UnitLiter.BaseUnit())
	assert.Equal(t, UnitGram, UnitGram.BaseUnit())
	assert.Equal(t, UnitPiece, UnitPiece.BaseUnit())

	assert.True(t, UnitKilogram.IsLarge())
	assert.True(t, UnitLiter.IsLarge())
	assert.False(t, UnitPiece.IsLarge())
}

func TestProductRecord_HasMeasure(t *testing.T) {
	v := decimal.NewFromInt(500)

	assert.True(t, ProductRecord{MeasureValue: &v, MeasureUnit: UnitGram}.HasMeasure())
	assert.False(t, ProductRecord{MeasureUnit: UnitGram}.HasMeasure())
	assert.False(t, ProductRecord{MeasureValue: &v}.HasMeasure())
}

func TestCartEntry_LineTotal(t *testing.T) {
	e := CartEntry{ProductRecord: ProductRecord{Price: decimal.RequireFromString("4.35")}, Quantity: 3}
	assert.True(t, e.LineTotal().Equal(decimal.RequireFromString("13.05")))
}

func TestAmountInRange(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"4.5", true},
		{"1e3", true},
		{"999999999.999999", true},
		{"-12.5", true},
		{"1000000000", false},
		{"0.0000001", false},
		{"1e5000000", false},
		{"1e-5000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInRange(decimal.RequireFromString(tt.in)))
		})
	}
}
