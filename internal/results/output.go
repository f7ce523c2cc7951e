package results

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"simbadrun/pkg/logging"
)

// outputFilesDir is where the programs leave per-hit refinement outputs.
const outputFilesDir = "output_files"

// RefinementOutputPaths returns the refinement output pair the program
// writes for a database hit inside its work directory.
func RefinementOutputPaths(workDir, pdbCode string) (pdb, mtz string) {
	stem := filepath.Join(workDir, outputFilesDir, pdbCode)
	pdb = filepath.Join(stem, pdbCode+"_refinement_output.pdb")
	mtz = filepath.Join(stem, pdbCode+"_refinement_output.mtz")
	return pdb, mtz
}

// CopyOutputFiles copies the winning hit's refinement outputs to the task's
// declared coordinate and reflection output paths. The copy happens only
// when both source files exist; a half-written work directory copies
// nothing and reports false without an error.
func CopyOutputFiles(workDir, pdbCode, outputPDB, outputMTZ string) (bool, error) {
	srcPDB, srcMTZ := RefinementOutputPaths(workDir, pdbCode)

	for _, src := range []string{srcPDB, srcMTZ} {
		if info, err := os.Stat(src); err != nil || info.IsDir() {
			logging.Debug("Results", "Refinement output %s not present, skipping copy", src)
			return false, nil
		}
	}

	if err := copyFile(srcPDB, outputPDB); err != nil {
		return false, err
	}
	if err := copyFile(srcMTZ, outputMTZ); err != nil {
		return false, err
	}

	logging.Info("Results", "Copied refinement outputs for %s to %s and %s", pdbCode, outputPDB, outputMTZ)
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Sync()
}
