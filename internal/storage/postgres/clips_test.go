package postgres

import (
	"reflect"
	"testing"

	"github.com/eslbridge/sign-translator/internal/catalog"
	"github.com/eslbridge/sign-translator/internal/storage/models"
)

func TestCatalogFromClipsRoundTrip(t *testing.T) {
	orig, err := catalog.New("text-embedding-ada-002", []catalog.Entry{
		{Label: "hello", ClipID: "hello", AssetPath: "clips/hello.mp4", Embedding: []float32{1, 0}},
		{Label: "good morning", ClipID: "good_morning", AssetPath: "clips/good_morning.mp4", Embedding: []float32{0.6, 0.8}},
	})
	if err != nil {
		t.Fatal(err)
	}

	clips := models.ClipsFromCatalog(orig)
	for i, c := range clips {
		if c.Position != i {
			t.Errorf("clip %q position = %d, want %d", c.Label, c.Position, i)
		}
	}

	got, err := CatalogFromClips(clips)
	if err != nil {
		t.Fatalf("CatalogFromClips: %v", err)
	}
	if got.Model() != orig.Model() {
		t.Errorf("model = %q, want %q", got.Model(), orig.Model())
	}
	if !reflect.DeepEqual(got.Entries(), orig.Entries()) {
		t.Errorf("entries = %+v, want %+v", got.Entries(), orig.Entries())
	}
}

func TestCatalogFromClipsRejectsMixedModels(t *testing.T) {
	clips := []models.Clip{
		{Label: "a", ClipID: "a", Model: "m1", Embedding: []float32{1}},
		{Label: "b", ClipID: "b", Model: "m2", Embedding: []float32{1}},
	}
	if _, err := CatalogFromClips(clips); err == nil {
		t.Fatal("expected error for mixed embedding models")
	}
}

func TestCatalogFromClipsEmpty(t *testing.T) {
	c, err := CatalogFromClips(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
