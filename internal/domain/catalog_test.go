package domain

import (
	"reflect"
	"testing"
)

func TestTaskDefValidate(t *testing.T) {
	valid := TaskDef{
		Product:       "Box",
		Name:          "Box - Cut",
		Result:        "BOX_CUT",
		DurationSlots: 2,
		Weights:       SkillSet{OpenPaper: 100},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*TaskDef)
	}{
		{"empty product", func(d *TaskDef) { d.Product = "" }},
		{"empty name", func(d *TaskDef) { d.Name = "" }},
		{"empty result", func(d *TaskDef) { d.Result = "" }},
		{"zero duration", func(d *TaskDef) { d.DurationSlots = 0 }},
		{"weight above 100", func(d *TaskDef) { d.Weights.Bending = 101 }},
		{"negative weight", func(d *TaskDef) { d.Weights.Gluing = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			if err := d.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseRequirements(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"R1", []string{"R1"}},
		{"R1, R2", []string{"R1", "R2"}},
		{"R1,,R2, ", []string{"R1", "R2"}},
	}
	for _, tc := range cases {
		if got := ParseRequirements(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseRequirements(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCatalogProductsKeepsFirstAppearanceOrder(t *testing.T) {
	c := Catalog{
		{Product: "Box", Name: "A", Result: "R1", DurationSlots: 1},
		{Product: "Crate", Name: "B", Result: "R2", DurationSlots: 1},
		{Product: "Box", Name: "C", Result: "R3", DurationSlots: 1},
	}

	got := c.Products()
	want := []string{"Box", "Crate"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	defs := c.ForProduct("Box")
	if len(defs) != 2 || defs[0].Name != "A" || defs[1].Name != "C" {
		t.Errorf("ForProduct must keep catalog order, got %v", defs)
	}
	if defs := c.ForProduct("Pallet"); defs != nil {
		t.Errorf("unknown product must yield nil, got %v", defs)
	}
}

func TestWorkerFavoriteRank(t *testing.T) {
	w := Worker{
		Name:      "anna",
		Favorites: [FavoriteProducts]string{"Box", "Crate"},
	}

	cases := []struct {
		product string
		want    int
	}{
		{"Box", 1},
		{"Crate", 2},
		{"Pallet", 0},
		{"", 0}, // пустая позиция предпочтений не совпадает с пустым продуктом
	}
	for _, tc := range cases {
		if got := w.FavoriteRank(tc.product); got != tc.want {
			t.Errorf("FavoriteRank(%q) = %d, want %d", tc.product, got, tc.want)
		}
	}
}

func TestRosterValidateRejectsDuplicates(t *testing.T) {
	r := Roster{
		{Name: "anna", Skills: SkillSet{Bending: 0.5}},
		{Name: "anna", Skills: SkillSet{Gluing: 0.5}},
	}
	if err := r.Validate(); err == nil {
		t.Error("expected duplicate name error")
	}

	r = Roster{
		{Name: "anna", Skills: SkillSet{Bending: 1.5}},
	}
	if err := r.Validate(); err == nil {
		t.Error("expected skill range error")
	}
}

func TestRosterByName(t *testing.T) {
	r := Roster{
		{Name: "anna"},
		{Name: "boris"},
	}

	w, ok := r.ByName("boris")
	if !ok || w.Name != "boris" {
		t.Errorf("expected boris, got %v (ok=%v)", w, ok)
	}
	if _, ok := r.ByName("ghost"); ok {
		t.Error("unknown worker must not be found")
	}
}
