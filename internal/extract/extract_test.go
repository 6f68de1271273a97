// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/agustif/llm-arxiv/internal/convert"
	"github.com/agustif/llm-arxiv/internal/selection"
)

// fakeSource is an in-memory document with a fixed image layout.
type fakeSource struct {
	images [][]convert.EmbeddedImage
}

func (f *fakeSource) PageCount() int { return len(f.images) }

func (f *fakeSource) PageImages(page int) []convert.EmbeddedImage {
	if page < 1 || page > len(f.images) {
		return nil
	}
	return f.images[page-1]
}

// pngBytes encodes a small solid image so decode succeeds.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

// layout: page 1 has two images, page 2 none, page 3 one image.
func testSource(t *testing.T) *fakeSource {
	t.Helper()
	img := convert.EmbeddedImage{Raw: pngBytes(t, 4, 4), Format: "png"}
	return &fakeSource{images: [][]convert.EmbeddedImage{
		{img, img},
		{},
		{img},
	}}
}

func mustParse(t *testing.T, s string) selection.Spec {
	t.Helper()
	spec, err := selection.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return spec
}

func TestImagesAll(t *testing.T) {
	images, diags := Images(testSource(t), mustParse(t, "all"))
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}
	if len(images) != 3 {
		t.Fatalf("len(images) = %d, want 3", len(images))
	}

	want := []struct{ page, index int }{{1, 1}, {1, 2}, {3, 3}}
	for i, w := range want {
		if images[i].PageNumber != w.page || images[i].GlobalIndex != w.index {
			t.Errorf("images[%d] = (page %d, index %d), want (page %d, index %d)",
				i, images[i].PageNumber, images[i].GlobalIndex, w.page, w.index)
		}
		if images[i].Raster == nil {
			t.Errorf("images[%d].Raster = nil", i)
		}
		if images[i].Format != "image/png" {
			t.Errorf("images[%d].Format = %q, want image/png", i, images[i].Format)
		}
	}
}

func TestImagesNone(t *testing.T) {
	images, diags := Images(testSource(t), mustParse(t, "none"))
	if len(images) != 0 || len(diags) != 0 {
		t.Errorf("Images(none) = %d images, %d diagnostics, want 0, 0", len(images), len(diags))
	}
}

// Global indices depend only on document order, never on the selection.
func TestImagesIndexStableAcrossSpecs(t *testing.T) {
	src := testSource(t)

	all, _ := Images(src, mustParse(t, "all"))
	byPage, _ := Images(src, mustParse(t, "P:3"))
	byIndex, _ := Images(src, mustParse(t, "G:2"))

	if len(byPage) != 1 || byPage[0].PageNumber != 3 || byPage[0].GlobalIndex != 3 {
		t.Errorf("Images(P:3) = %+v, want the single (page 3, index 3) image", byPage)
	}
	if len(byIndex) != 1 || byIndex[0].PageNumber != 1 || byIndex[0].GlobalIndex != 2 {
		t.Errorf("Images(G:2) = %+v, want the single (page 1, index 2) image", byIndex)
	}
	if all[2].GlobalIndex != byPage[0].GlobalIndex {
		t.Errorf("index of page-3 image differs across specs: %d vs %d",
			all[2].GlobalIndex, byPage[0].GlobalIndex)
	}
}

// The extracted set is exactly the set the predicate accepts.
func TestImagesMatchPredicateExactly(t *testing.T) {
	src := testSource(t)
	specs := []string{"all", "none", "P:1", "P:2", "P:1,3", "G:1", "G:2-3", "G:1-2"}

	for _, s := range specs {
		spec := mustParse(t, s)
		images, _ := Images(src, spec)

		got := make(map[[2]int]bool)
		for _, img := range images {
			if !spec.Matches(img.PageNumber, img.GlobalIndex) {
				t.Errorf("spec %q: extracted (page %d, index %d) is not selected by the predicate",
					s, img.PageNumber, img.GlobalIndex)
			}
			got[[2]int{img.PageNumber, img.GlobalIndex}] = true
		}

		// Every selected (page, index) pair in the layout must be present.
		for _, pair := range [][2]int{{1, 1}, {1, 2}, {3, 3}} {
			if spec.Matches(pair[0], pair[1]) && !got[pair] {
				t.Errorf("spec %q: (page %d, index %d) selected but not extracted", s, pair[0], pair[1])
			}
		}
	}
}

// A corrupt image is skipped with a diagnostic; the walk continues and
// later indices are unaffected.
func TestImagesDecodeFailureIsNonFatal(t *testing.T) {
	good := convert.EmbeddedImage{Raw: pngBytes(t, 4, 4), Format: "png"}
	corrupt := convert.EmbeddedImage{Raw: []byte("not an image"), Format: "png"}
	src := &fakeSource{images: [][]convert.EmbeddedImage{
		{good, corrupt, good},
	}}

	images, diags := Images(src, mustParse(t, "all"))

	if len(images) != 2 {
		t.Fatalf("len(images) = %d, want 2", len(images))
	}
	if images[0].GlobalIndex != 1 || images[1].GlobalIndex != 3 {
		t.Errorf("surviving indices = %d, %d, want 1, 3", images[0].GlobalIndex, images[1].GlobalIndex)
	}
	if len(diags) != 1 {
		t.Fatalf("len(diagnostics) = %d, want 1", len(diags))
	}
	if diags[0].PageNumber != 1 || diags[0].GlobalIndex != 2 {
		t.Errorf("diagnostic at (page %d, index %d), want (page 1, index 2)",
			diags[0].PageNumber, diags[0].GlobalIndex)
	}
	if diags[0].Err == nil {
		t.Error("diagnostic carries no error")
	}
}
