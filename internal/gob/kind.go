package gob

import (
	"path"
	"strings"
)

// AssetKind is a coarse classification of an archived file by its extension.
type AssetKind int

const (
	KindOther AssetKind = iota
	KindLevel
	KindModel
	KindMaterial
	KindSound
	KindScript
	KindPalette
	KindBitmap
	KindAnimation
)

func (k AssetKind) String() string {
	switch k {
	case KindLevel:
		return "Level"
	case KindModel:
		return "Model"
	case KindMaterial:
		return "Material"
	case KindSound:
		return "Sound"
	case KindScript:
		return "Script"
	case KindPalette:
		return "Palette"
	case KindBitmap:
		return "Bitmap"
	case KindAnimation:
		return "Animation"
	default:
		return "Other"
	}
}

// MarshalText lets kinds appear by name in JSON listings.
func (k AssetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var kindsByExt = map[string]AssetKind{
	".jkl": KindLevel,
	".lev": KindLevel,
	".inf": KindLevel,
	".o":   KindLevel,
	".3do": KindModel,
	".mat": KindMaterial,
	".wav": KindSound,
	".voc": KindSound,
	".snd": KindSound,
	".gmd": KindSound,
	".cog": KindScript,
	".pal": KindPalette,
	".cmp": KindPalette,
	".bm":  KindBitmap,
	".fme": KindBitmap,
	".key": KindAnimation,
	".pup": KindAnimation,
	".wax": KindAnimation,
}

// KindOf classifies an archive path by extension, ignoring case.
func KindOf(p string) AssetKind {
	ext := strings.ToLower(path.Ext(NormalizePath(p)))
	if k, ok := kindsByExt[ext]; ok {
		return k
	}
	return KindOther
}
