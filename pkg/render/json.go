package render

import (
	"encoding/json"

	"github.com/matzehuels/exhibitnet/pkg/network"
)

// JSON encodes the layout payload consumed by interactive hosts.
func JSON(l network.Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
