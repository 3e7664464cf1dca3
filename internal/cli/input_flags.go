package cli

import (
	"github.com/spf13/pflag"

	"github.com/alexanderramin/taxis/internal/config"
	"github.com/alexanderramin/taxis/internal/ingest"
)

// inputFlags are the file-reading flags shared by classify and dedup.
type inputFlags struct {
	delimiter  string
	encoding   string
	textColumn string
	keep       string
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.delimiter, "delimiter", "d", "", "Preferred delimiter (e.g. ';', comma, tab)")
	fs.StringVar(&f.encoding, "encoding", "", "Preferred text encoding (utf-8, latin-1, cp1252)")
	fs.StringVar(&f.textColumn, "text-column", "", "Column holding the query text")
	fs.StringVar(&f.keep, "keep", "", "Which duplicate to keep: first or last")
}

// resolve overlays explicitly set flags on the configured input settings.
func (f *inputFlags) resolve(fs *pflag.FlagSet, base config.InputConfig) (config.InputConfig, error) {
	out := base
	if flagChanged(fs, "delimiter") {
		d, err := ingest.ParseDelimiter(f.delimiter)
		if err != nil {
			return out, err
		}
		out.Delimiter = d
	}
	if flagChanged(fs, "encoding") {
		out.Encoding = f.encoding
	}
	if flagChanged(fs, "text-column") {
		out.TextColumn = f.textColumn
	}
	if flagChanged(fs, "keep") {
		out.Keep = ingest.ParseKeep(f.keep)
	}
	return out, nil
}
