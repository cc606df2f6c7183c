package vision

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestROIRect(t *testing.T) {
	tests := []struct {
		name   string
		frame  image.Point
		w, h   int
		expect image.Rectangle
	}{
		{
			name:   "default target on VGA",
			frame:  image.Pt(640, 480),
			w:      400,
			h:      300,
			expect: image.Rect(120, 90, 520, 390),
		},
		{
			name:   "target larger than frame",
			frame:  image.Pt(320, 240),
			w:      400,
			h:      300,
			expect: image.Rect(0, 0, 320, 240),
		},
		{
			name:   "width clamped only",
			frame:  image.Pt(300, 480),
			w:      400,
			h:      300,
			expect: image.Rect(0, 90, 300, 390),
		},
		{
			name:   "odd remainder rounds origin down",
			frame:  image.Pt(641, 481),
			w:      400,
			h:      300,
			expect: image.Rect(120, 90, 520, 390),
		},
		{
			name:   "non-positive target means whole frame",
			frame:  image.Pt(640, 480),
			w:      0,
			h:      -1,
			expect: image.Rect(0, 0, 640, 480),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ROIRect(tc.frame, tc.w, tc.h)
			if diff := cmp.Diff(tc.expect, got); diff != "" {
				t.Errorf("ROIRect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSectorRects_VGA(t *testing.T) {
	roi := ROIRect(image.Pt(640, 480), 400, 300)
	got := SectorRects(roi)

	want := [NumSectors]image.Rectangle{
		image.Rect(120, 90, 253, 390),
		image.Rect(253, 90, 386, 390),
		image.Rect(386, 90, 520, 390),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SectorRects mismatch (-want +got):\n%s", diff)
	}

	widths := []int{got[0].Dx(), got[1].Dx(), got[2].Dx()}
	if diff := cmp.Diff([]int{133, 133, 134}, widths); diff != "" {
		t.Errorf("sector widths mismatch (-want +got):\n%s", diff)
	}
}

func TestSectorRects_Coverage(t *testing.T) {
	for w := 3; w <= 40; w++ {
		for _, h := range []int{1, 7} {
			roi := image.Rect(5, 2, 5+w, 2+h)
			sectors := SectorRects(roi)

			sum := 0
			covered := make([]int, w)
			for _, s := range sectors {
				if s.Empty() {
					t.Fatalf("w=%d: empty sector %v", w, s)
				}
				if s.Min.Y != roi.Min.Y || s.Max.Y != roi.Max.Y {
					t.Errorf("w=%d: sector %v does not span ROI height", w, s)
				}
				sum += s.Dx()
				for x := s.Min.X; x < s.Max.X; x++ {
					covered[x-roi.Min.X]++
				}
			}

			if sum != w {
				t.Errorf("w=%d: widths sum to %d", w, sum)
			}
			for x, n := range covered {
				if n != 1 {
					t.Errorf("w=%d: column %d covered %d times", w, x, n)
				}
			}
			if sectors[2].Dx() < sectors[0].Dx() {
				t.Errorf("w=%d: right sector %d narrower than left %d", w, sectors[2].Dx(), sectors[0].Dx())
			}
		}
	}
}

func TestSector_String(t *testing.T) {
	names := []string{}
	for _, s := range Sectors {
		names = append(names, s.String())
	}
	if diff := cmp.Diff([]string{"left", "center", "right"}, names); diff != "" {
		t.Errorf("sector names mismatch (-want +got):\n%s", diff)
	}
	if Sector(7).String() != "unknown" {
		t.Errorf("out-of-range sector: got %q", Sector(7).String())
	}
}
