package extract

import (
	"errors"
	"testing"
)

func TestDecodeJobRecord(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		raw := `{"title":"Javaエンジニア","company":"株式会社テスト","grade":"SE","unitPrice":70,"skills":["Java","AWS"]}`
		record, err := DecodeJobRecord(raw)
		if err != nil {
			t.Fatalf("DecodeJobRecord returned error: %v", err)
		}
		if record.Title != "Javaエンジニア" {
			t.Errorf("title = %q", record.Title)
		}
		if len(record.Skills) != 2 {
			t.Errorf("skills = %v", record.Skills)
		}
	})

	t.Run("array-wrapped object takes first element", func(t *testing.T) {
		raw := ` [{"title":"フロントエンド","grade":"SE"},{"title":"two"}] `
		record, err := DecodeJobRecord(raw)
		if err != nil {
			t.Fatalf("DecodeJobRecord returned error: %v", err)
		}
		if record.Title != "フロントエンド" {
			t.Errorf("title = %q, want first element", record.Title)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		_, err := DecodeJobRecord("[]")
		if !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("err = %v, want ErrEmptyResponse", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := DecodeJobRecord("{not json"); err == nil {
			t.Fatal("expected decode error")
		}
	})

	t.Run("unit price as string is tolerated", func(t *testing.T) {
		raw := `{"title":"t","unitPrice":"70万円(140-200)"}`
		record, err := DecodeJobRecord(raw)
		if err != nil {
			t.Fatalf("DecodeJobRecord returned error: %v", err)
		}
		price := record.UnitPriceValue()
		if price == nil || *price != 70 {
			t.Errorf("price = %v, want 70", price)
		}
	})
}

func TestJobRecord_HasTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Javaエンジニア", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}
	for _, tt := range tests {
		record := &JobRecord{Title: tt.title}
		if got := record.HasTitle(); got != tt.want {
			t.Errorf("HasTitle(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestJobRecord_NormalizedGrade(t *testing.T) {
	tests := []struct {
		grade Grade
		want  Grade
	}{
		{GradePM, GradePM},
		{GradeTeamLeader, GradeTeamLeader},
		{"", GradeSE},
		{"シニアエンジニア", GradeSE}, // 列挙外はSEに倒す
		{" PMO ", GradePMO},
	}
	for _, tt := range tests {
		record := &JobRecord{Grade: tt.grade}
		if got := record.NormalizedGrade(); got != tt.want {
			t.Errorf("NormalizedGrade(%q) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestJobRecord_UnitPriceValue(t *testing.T) {
	t.Run("numeric in 万円", func(t *testing.T) {
		record := mustDecode(t, `{"title":"t","unitPrice":70}`)
		if price := record.UnitPriceValue(); price == nil || *price != 70 {
			t.Errorf("price = %v, want 70", price)
		}
	})

	t.Run("numeric accidentally in yen", func(t *testing.T) {
		record := mustDecode(t, `{"title":"t","unitPrice":550000}`)
		if price := record.UnitPriceValue(); price == nil || *price != 55 {
			t.Errorf("price = %v, want 55", price)
		}
	})

	t.Run("zero becomes nil", func(t *testing.T) {
		record := mustDecode(t, `{"title":"t","unitPrice":0}`)
		if price := record.UnitPriceValue(); price != nil {
			t.Errorf("price = %v, want nil", *price)
		}
	})

	t.Run("absent becomes nil", func(t *testing.T) {
		record := mustDecode(t, `{"title":"t"}`)
		if price := record.UnitPriceValue(); price != nil {
			t.Errorf("price = %v, want nil", *price)
		}
	})

	t.Run("unparseable string becomes nil", func(t *testing.T) {
		record := mustDecode(t, `{"title":"t","unitPrice":"要相談"}`)
		if price := record.UnitPriceValue(); price != nil {
			t.Errorf("price = %v, want nil", *price)
		}
	})
}

func mustDecode(t *testing.T, raw string) *JobRecord {
	t.Helper()
	record, err := DecodeJobRecord(raw)
	if err != nil {
		t.Fatalf("DecodeJobRecord(%q): %v", raw, err)
	}
	return record
}
