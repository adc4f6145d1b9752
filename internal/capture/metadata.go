package capture

import (
	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/qrguard/internal/model"
)

// Metadata finding kinds.
const (
	MetadataGPS      = "gps"
	MetadataSerial   = "serial"
	MetadataCamera   = "camera"
	MetadataAuthor   = "author"
	MetadataSoftware = "software"
)

// InspectMetadata returns the identifying EXIF tags found in data. Images
// without EXIF, or with EXIF that cannot be parsed, yield no findings.
func InspectMetadata(data []byte) (findings []model.MetadataFinding) {
	// go-exif panics on some truncated inputs.
	defer func() {
		if recover() != nil {
			findings = nil
		}
	}()

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		kind := metadataKind(entry.TagName)
		if kind == "" {
			continue
		}
		findings = append(findings, model.MetadataFinding{
			Tag:   entry.TagName,
			Value: entry.Formatted,
			Kind:  kind,
		})
	}
	return findings
}

// metadataKind groups an EXIF tag name, or returns "" for tags that do not
// identify the photographer or the device.
func metadataKind(tag string) string {
	switch tag {
	case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef", "GPSAltitude":
		return MetadataGPS
	case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
		return MetadataSerial
	case "Make", "Model":
		return MetadataCamera
	case "Artist", "Author", "Copyright", "XPAuthor":
		return MetadataAuthor
	case "Software", "ProcessingSoftware":
		return MetadataSoftware
	default:
		return ""
	}
}
