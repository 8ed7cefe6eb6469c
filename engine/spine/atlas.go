package spine

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureFilter is the filter an atlas page requests for minification or magnification.
type TextureFilter int

const (
	TextureFilterNearest TextureFilter = iota
	TextureFilterLinear
	TextureFilterMipMap
	TextureFilterMipMapNearestNearest
	TextureFilterMipMapLinearNearest
	TextureFilterMipMapNearestLinear
	TextureFilterMipMapLinearLinear
)

var textureFilterNames = map[string]TextureFilter{
	"nearest":              TextureFilterNearest,
	"linear":               TextureFilterLinear,
	"mipmap":               TextureFilterMipMap,
	"mipmapnearestnearest": TextureFilterMipMapNearestNearest,
	"mipmaplinearnearest":  TextureFilterMipMapLinearNearest,
	"mipmapnearestlinear":  TextureFilterMipMapNearestLinear,
	"mipmaplinearlinear":   TextureFilterMipMapLinearLinear,
}

// TextureWrap is the repeat mode of an atlas page along one axis.
type TextureWrap int

const (
	TextureWrapClampToEdge TextureWrap = iota
	TextureWrapRepeat
	TextureWrapMirroredRepeat
)

// AtlasPage is one image page of a texture atlas.
type AtlasPage struct {
	// Name is the page image file name as written in the atlas.
	Name string
	// ImagePath is Name resolved against the atlas directory.
	ImagePath string
	Width     int
	Height    int
	Format    string
	MinFilter TextureFilter
	MagFilter TextureFilter
	UWrap     TextureWrap
	VWrap     TextureWrap
	// PMA reports premultiplied alpha.
	PMA   bool
	Scale float32
}

// SamplerData maps the page's filter and wrap settings onto GPU sampler staging data.
//
// Returns:
//   - common.SamplerStagingData: the sampler configuration for this page
func (p *AtlasPage) SamplerData() common.SamplerStagingData {
	s := common.DefaultSamplerStagingData()
	s.MagFilter = filterMode(p.MagFilter)
	s.MinFilter = filterMode(p.MinFilter)

	switch p.MinFilter {
	case TextureFilterNearest, TextureFilterLinear:
		s.LodMaxClamp = 0
	case TextureFilterMipMapNearestNearest, TextureFilterMipMapLinearNearest:
		s.MipmapFilter = wgpu.MipmapFilterModeNearest
	}

	s.AddressModeU = addressMode(p.UWrap)
	s.AddressModeV = addressMode(p.VWrap)
	return s
}

func filterMode(f TextureFilter) wgpu.FilterMode {
	switch f {
	case TextureFilterNearest, TextureFilterMipMapNearestNearest, TextureFilterMipMapNearestLinear:
		return wgpu.FilterModeNearest
	default:
		return wgpu.FilterModeLinear
	}
}

func addressMode(w TextureWrap) wgpu.AddressMode {
	switch w {
	case TextureWrapRepeat:
		return wgpu.AddressModeRepeat
	case TextureWrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeClampToEdge
	}
}

// AtlasRegion is a named rectangle on an atlas page.
type AtlasRegion struct {
	Name string
	Page *AtlasPage
	X    int
	Y    int
	// Width and Height are the packed size, before rotation is undone.
	Width  int
	Height int
	// Degrees is the packing rotation, 0 or 90 in practice.
	Degrees        int
	OffsetX        float32
	OffsetY        float32
	OriginalWidth  int
	OriginalHeight int
	// Index is the sequence frame index, -1 when the region is not part of a sequence.
	Index int
	// Values holds any extra named region entries (split, pad and custom keys).
	Values map[string][]int
}

// Rotated reports whether the region was packed rotated.
func (r *AtlasRegion) Rotated() bool {
	return r.Degrees == 90
}

// Atlas is a parsed texture atlas. It is immutable after ParseAtlas returns.
type Atlas struct {
	pages   []*AtlasPage
	regions []*AtlasRegion
	byName  map[string]*AtlasRegion
}

// Pages returns the atlas pages in file order.
func (a *Atlas) Pages() []*AtlasPage {
	return a.pages
}

// Regions returns the atlas regions in file order.
func (a *Atlas) Regions() []*AtlasRegion {
	return a.regions
}

// FindRegion returns the first region with the given name, or nil.
func (a *Atlas) FindRegion(name string) *AtlasRegion {
	if a == nil {
		return nil
	}
	return a.byName[name]
}

// atlasReader walks atlas lines while tracking the line number for errors.
type atlasReader struct {
	scanner *bufio.Scanner
	line    int
	eof     bool
}

func (r *atlasReader) next() (string, bool) {
	if r.eof {
		return "", false
	}
	if !r.scanner.Scan() {
		r.eof = true
		return "", false
	}
	r.line++
	return strings.TrimRight(r.scanner.Text(), "\r"), true
}

// atlasEntry splits "key: a, b, c" into its key and up to four values.
// ok is false for blank lines and lines with no colon.
func atlasEntry(line string) (key string, values []string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, false
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", nil, false
	}
	key = strings.TrimSpace(line[:colon])
	for _, v := range strings.SplitN(line[colon+1:], ",", 4) {
		values = append(values, strings.TrimSpace(v))
	}
	return key, values, true
}

// ParseAtlas parses a Spine/libGDX texture atlas. Both the legacy layout (xy/size/orig/offset)
// and the compact layout (bounds/offsets) are accepted. Page image paths are resolved relative
// to dir using slash-separated asset paths.
//
// Parameters:
//   - data: the atlas text
//   - dir: the directory containing the atlas, used to resolve page image names
//
// Returns:
//   - *Atlas: the parsed atlas
//   - error: error wrapping ErrInvalidAtlas if a line cannot be parsed
func ParseAtlas(data []byte, dir string) (*Atlas, error) {
	r := &atlasReader{scanner: bufio.NewScanner(bytes.NewReader(data))}
	atlas := &Atlas{byName: make(map[string]*AtlasRegion)}

	line, ok := r.next()
	for ok && strings.TrimSpace(line) == "" {
		line, ok = r.next()
	}

	// Header entries before the first page are ignored.
	for ok {
		if _, _, isEntry := atlasEntry(line); !isEntry {
			break
		}
		line, ok = r.next()
	}

	var page *AtlasPage
	for ok {
		if strings.TrimSpace(line) == "" {
			page = nil
			line, ok = r.next()
			continue
		}

		if page == nil {
			name := strings.TrimSpace(line)
			page = &AtlasPage{
				Name:      name,
				ImagePath: path.Join(dir, name),
				MinFilter: TextureFilterNearest,
				MagFilter: TextureFilterNearest,
				Scale:     1,
			}
			for {
				line, ok = r.next()
				key, values, isEntry := atlasEntry(line)
				if !ok || !isEntry {
					break
				}
				if err := parsePageEntry(page, key, values); err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidAtlas, r.line, err)
				}
			}
			atlas.pages = append(atlas.pages, page)
			continue
		}

		region := &AtlasRegion{Name: strings.TrimSpace(line), Page: page, Index: -1}
		for {
			line, ok = r.next()
			key, values, isEntry := atlasEntry(line)
			if !ok || !isEntry {
				break
			}
			if err := parseRegionEntry(region, key, values); err != nil {
				return nil, fmt.Errorf("%w: line %d: region %q: %v", ErrInvalidAtlas, r.line, region.Name, err)
			}
		}
		if region.OriginalWidth == 0 && region.OriginalHeight == 0 {
			region.OriginalWidth = region.Width
			region.OriginalHeight = region.Height
		}
		atlas.regions = append(atlas.regions, region)
		if _, exists := atlas.byName[region.Name]; !exists {
			atlas.byName[region.Name] = region
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAtlas, err)
	}
	return atlas, nil
}

func parsePageEntry(page *AtlasPage, key string, values []string) error {
	switch key {
	case "size":
		ints, err := atlasInts(values, 2)
		if err != nil {
			return err
		}
		page.Width, page.Height = ints[0], ints[1]
	case "format":
		page.Format = values[0]
	case "filter":
		if len(values) < 2 {
			return fmt.Errorf("filter needs min and mag values")
		}
		minFilter, ok := textureFilterNames[strings.ToLower(values[0])]
		if !ok {
			return fmt.Errorf("unknown filter %q", values[0])
		}
		magFilter, ok := textureFilterNames[strings.ToLower(values[1])]
		if !ok {
			return fmt.Errorf("unknown filter %q", values[1])
		}
		page.MinFilter, page.MagFilter = minFilter, magFilter
	case "repeat":
		switch values[0] {
		case "x":
			page.UWrap = TextureWrapRepeat
		case "y":
			page.VWrap = TextureWrapRepeat
		case "xy":
			page.UWrap, page.VWrap = TextureWrapRepeat, TextureWrapRepeat
		case "none":
		default:
			return fmt.Errorf("unknown repeat %q", values[0])
		}
	case "pma":
		page.PMA = values[0] == "true"
	case "scale":
		scale, err := strconv.ParseFloat(values[0], 32)
		if err != nil {
			return fmt.Errorf("scale: %w", err)
		}
		page.Scale = float32(scale)
	}
	return nil
}

func parseRegionEntry(region *AtlasRegion, key string, values []string) error {
	switch key {
	case "xy":
		ints, err := atlasInts(values, 2)
		if err != nil {
			return err
		}
		region.X, region.Y = ints[0], ints[1]
	case "size":
		ints, err := atlasInts(values, 2)
		if err != nil {
			return err
		}
		region.Width, region.Height = ints[0], ints[1]
	case "bounds":
		ints, err := atlasInts(values, 4)
		if err != nil {
			return err
		}
		region.X, region.Y, region.Width, region.Height = ints[0], ints[1], ints[2], ints[3]
	case "offset":
		ints, err := atlasInts(values, 2)
		if err != nil {
			return err
		}
		region.OffsetX, region.OffsetY = float32(ints[0]), float32(ints[1])
	case "orig":
		ints, err := atlasInts(values, 2)
		if err != nil {
			return err
		}
		region.OriginalWidth, region.OriginalHeight = ints[0], ints[1]
	case "offsets":
		ints, err := atlasInts(values, 4)
		if err != nil {
			return err
		}
		region.OffsetX, region.OffsetY = float32(ints[0]), float32(ints[1])
		region.OriginalWidth, region.OriginalHeight = ints[2], ints[3]
	case "rotate":
		switch values[0] {
		case "true":
			region.Degrees = 90
		case "false":
			region.Degrees = 0
		default:
			degrees, err := strconv.Atoi(values[0])
			if err != nil {
				return fmt.Errorf("rotate: %w", err)
			}
			region.Degrees = degrees
		}
	case "index":
		index, err := strconv.Atoi(values[0])
		if err != nil {
			return fmt.Errorf("index: %w", err)
		}
		region.Index = index
	default:
		ints, err := atlasInts(values, len(values))
		if err != nil {
			return err
		}
		if region.Values == nil {
			region.Values = make(map[string][]int)
		}
		region.Values[key] = ints
	}
	return nil
}

func atlasInts(values []string, n int) ([]int, error) {
	if len(values) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(values))
	}
	ints := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(values[i])
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", values[i], err)
		}
		ints[i] = v
	}
	return ints, nil
}
