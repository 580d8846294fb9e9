package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivalero/montaje/internal/model"
)

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		substr   string
		expected bool
	}{
		{"exact match", "PCB-100", "PCB-100", true},
		{"case insensitive", "PCB-100", "pcb", true},
		{"substring", "Power supply unit", "supply", true},
		{"mixed case substring", "Power Supply Unit", "sUpPlY", true},
		{"no match", "PCB-100", "ENC", false},
		{"empty substring", "PCB-100", "", true},
		{"substring longer than string", "abc", "abcdef", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsIgnoreCase(tt.s, tt.substr))
		})
	}
}

func TestModel_BuildListItems(t *testing.T) {
	m := Model{
		view: ViewProducts,
		products: []model.Product{
			{Code: "PCB-100", Description: "Main control board", Department: model.DeptElectronics},
			{Code: "ENC-10", Description: "Steel enclosure", Department: model.DeptMechanics},
			{Code: "PSU-20", Description: "Power supply", Department: model.DeptElectronics},
		},
		kits: []model.Kit{
			{Code: "KIT-01", Description: "Base kit"},
		},
	}

	t.Run("no filter shows all products", func(t *testing.T) {
		items := m.buildListItems()
		assert.Len(t, items, 3)
	})

	t.Run("filter by code", func(t *testing.T) {
		m.searchQuery = "pcb"
		items := m.buildListItems()
		assert.Len(t, items, 1)
		assert.Equal(t, "PCB-100", items[0].(productItem).product.Code)
	})

	t.Run("filter by description", func(t *testing.T) {
		m.searchQuery = "power"
		items := m.buildListItems()
		assert.Len(t, items, 1)
		assert.Equal(t, "PSU-20", items[0].(productItem).product.Code)
	})

	t.Run("filter with no matches", func(t *testing.T) {
		m.searchQuery = "zzz"
		items := m.buildListItems()
		assert.Empty(t, items)
	})

	t.Run("kit view uses kit catalogue", func(t *testing.T) {
		m.view = ViewKits
		m.searchQuery = ""
		items := m.buildListItems()
		assert.Len(t, items, 1)
		assert.Equal(t, "KIT-01", items[0].(kitItem).kit.Code)
	})
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "hello", stripANSI("\x1b[32mhello\x1b[0m"))
	assert.Equal(t, "plain", stripANSI("plain"))
}

func TestProductItem_FilterValue(t *testing.T) {
	item := productItem{product: model.Product{Code: "PCB-100", Description: "Main board"}}
	assert.Equal(t, "PCB-100 Main board", item.FilterValue())
	assert.Equal(t, "PCB-100", item.Title())
}
