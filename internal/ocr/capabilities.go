package ocr

import "sort"

// fallbackLanguages is the fixed language set used when the engine's
// supported-language query is unavailable or fails.
var fallbackLanguages = []string{"chi_sim", "chi_tra", "eng", "jpn"}

// Capabilities is the immutable engine configuration negotiated once at
// startup and reused for every extraction in the run.
type Capabilities struct {
	// Revision is the newest recognition protocol revision the engine
	// offers.
	Revision int

	// Languages is the engine's supported recognition language set, used
	// both for the --lang listing and as the default requested set.
	Languages []string
}

// RevisionProber is implemented by engines that expose multiple recognition
// protocol revisions.
type RevisionProber interface {
	Revisions() []int
}

// Negotiate probes the engine once and returns the capabilities to use for
// the rest of the run.
//
// A failed or empty supported-language query falls back to a fixed default
// list rather than failing the run. Engines that do not expose revisions are
// assigned revision 1.
func Negotiate(e Engine) Capabilities {
	caps := Capabilities{Revision: 1}

	langs, err := e.SupportedLanguages()
	if err != nil || len(langs) == 0 {
		langs = append([]string(nil), fallbackLanguages...)
	} else {
		langs = append([]string(nil), langs...)
		sort.Strings(langs)
	}
	caps.Languages = langs

	if rp, ok := e.(RevisionProber); ok {
		for _, r := range rp.Revisions() {
			if r > caps.Revision {
				caps.Revision = r
			}
		}
	}

	return caps
}
