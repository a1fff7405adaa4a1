package export

import (
	"encoding/csv"
	"os"
	"os/exec"
	"runtime"

	"sjsage522/profilescout/internal/scraper"
	"sjsage522/profilescout/logger"
	"sjsage522/profilescout/pkg/errors"
)

// CSVExporter writes finalized records to a CSV file and, when asked,
// opens it with the platform's default spreadsheet handler.
type CSVExporter struct {
	path      string
	openAfter bool
	log       *logger.Logger
}

func NewCSVExporter(path string, openAfter bool) *CSVExporter {
	return &CSVExporter{
		path:      path,
		openAfter: openAfter,
		log:       logger.ForComponent("csv_exporter"),
	}
}

func (e *CSVExporter) Export(records []scraper.ProfileRecord) error {
	f, err := os.Create(e.path)
	if err != nil {
		return errors.New(errors.ErrorTypeConfiguration, e.path, "failed to create output file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(scraper.RowHeader); err != nil {
		return errors.New(errors.ErrorTypeConfiguration, e.path, "failed to write header", err)
	}
	for i := range records {
		if err := w.Write(records[i].Row()); err != nil {
			return errors.New(errors.ErrorTypeConfiguration, e.path, "failed to write record", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.New(errors.ErrorTypeConfiguration, e.path, "failed to flush output file", err)
	}

	e.log.WithFields(logger.Fields{"path": e.path, "records": len(records)}).Info().Msg("exported records")

	if e.openAfter {
		if err := openFile(e.path); err != nil {
			e.log.WithError(err).Debug().Msg("could not open exported file")
		}
	}
	return nil
}

// openFile hands the file to the desktop environment. Best effort only.
func openFile(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("cmd", "/C", "start", "", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
