// SPDX-License-Identifier: MPL-2.0

package equinox

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lauritziu/maven-osgi-plugin/pkg/bundle"
)

// ErrMissingMandatoryBundle is matched by every *MissingBundleError.
var ErrMissingMandatoryBundle = errors.New("mandatory bundle missing")

// MandatoryBundles must be present for a simple configurator launch.
var MandatoryBundles = []string{bundle.FrameworkCore, bundle.SimpleConfigurator}

// MissingBundleError reports mandatory bundles absent from the scanned set.
// Only the simple configurator launch style is supported, so synthesis cannot
// continue without them.
type MissingBundleError struct {
	Names []string
}

func (e *MissingBundleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingMandatoryBundle, strings.Join(e.Names, ", "))
}

func (e *MissingBundleError) Unwrap() error { return ErrMissingMandatoryBundle }

// CheckMandatory returns a *MissingBundleError naming every mandatory bundle
// absent from set.
func CheckMandatory(set *bundle.Set) error {
	var missing []string
	for _, name := range MandatoryBundles {
		if _, ok := set.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingBundleError{Names: missing}
	}
	return nil
}
