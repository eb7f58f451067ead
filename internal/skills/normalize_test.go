package skills

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Github", "GitHub"},
		{"github", "GitHub"},
		{"SpringBoot", "Spring Boot"},
		{"Postgres", "PostgreSQL"},
		{"K8s", "Kubernetes"},
		{"シェルスクリプト", "Shell Script"},
		{"GCP", "Google Cloud"},
		{"  Typescript  ", "TypeScript"},
		// Unknown names pass through trimmed
		{"Rust", "Rust"},
		{" Elixir ", "Elixir"},
		// Canonical names are already canonical
		{"React Native", "React Native"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	t.Run("dedups after normalization preserving order", func(t *testing.T) {
		got := NormalizeAll([]string{"Github", "Java", "GitHub", "github", "AWS"})
		want := []string{"GitHub", "Java", "AWS"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("NormalizeAll = %v, want %v", got, want)
		}
	})

	t.Run("drops empty names", func(t *testing.T) {
		got := NormalizeAll([]string{"", "  ", "Java"})
		want := []string{"Java"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("NormalizeAll = %v, want %v", got, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := NormalizeAll(nil); len(got) != 0 {
			t.Errorf("NormalizeAll(nil) = %v, want empty", got)
		}
	})
}

func TestReverseMapHasNoVariantCollisions(t *testing.T) {
	// Two canonical names claiming the same variant would make normalization
	// depend on map iteration order
	seen := make(map[string]string)
	for standard, variants := range normalizationMap {
		for _, variant := range variants {
			if prev, ok := seen[variant]; ok && prev != standard {
				t.Errorf("variant %q claimed by both %q and %q", variant, prev, standard)
			}
			seen[variant] = standard
		}
	}
}
