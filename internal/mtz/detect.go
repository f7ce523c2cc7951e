package mtz

// Interpretation says how the reflection data in a file should be consumed.
type Interpretation int

const (
	// Undetermined means the file gives no usable signal yet: it is absent,
	// unreadable, or carries neither intensity nor amplitude columns. This is
	// a normal pre-configuration state, not an error.
	Undetermined Interpretation = iota
	// MergedIntensities means the file carries at least one merged intensity
	// column (type J).
	MergedIntensities
	// Amplitudes means the file carries amplitude columns (type F) and no
	// intensity columns.
	Amplitudes
)

// String makes Interpretation satisfy the fmt.Stringer interface.
func (i Interpretation) String() string {
	switch i {
	case MergedIntensities:
		return "merged intensities"
	case Amplitudes:
		return "amplitudes"
	default:
		return "undetermined"
	}
}

// DetectFromCatalogue classifies a column catalogue. Intensity columns take
// priority: one J-type column makes the data merged intensities even when
// amplitude columns are also present.
func DetectFromCatalogue(columns []Column) Interpretation {
	for _, col := range columns {
		if col.Type == TypeIntensity {
			return MergedIntensities
		}
	}
	for _, col := range columns {
		if col.Type == TypeAmplitude {
			return Amplitudes
		}
	}
	return Undetermined
}

// DetectPreferredInterpretation inspects the file at path and classifies its
// column catalogue. A path that does not name an existing, readable MTZ file
// yields Undetermined with no further work; the caller applies the result to
// a toggle parameter, so "no signal yet" simply leaves the toggle unset.
func DetectPreferredInterpretation(path string) Interpretation {
	f, err := Open(path)
	if err != nil {
		return Undetermined
	}
	return DetectFromCatalogue(f.columns)
}
