package watch

import (
	"fmt"
	"strings"

	"github.com/gshocksync/gshockd/utils"
)

// WorldCity is one of the six time-zone slots the watch stores. Slot 0 is
// the home city; the rest back the world-time display.
type WorldCity struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

const worldCityNameSize = 20

// EncodeWorldCity builds the world-city write payload as a hex string:
// command code, slot, then the city name in hex padded with '0' out to a
// fixed-width frame.
func EncodeWorldCity(c WorldCity) string {
	name := c.Name
	if len(name) > worldCityNameSize {
		name = name[:worldCityNameSize]
	}
	rec := fmt.Sprintf("%02X%02X", byte(CodeWorldCity), c.Slot) + utils.AsciiToHex(name)
	return utils.PadRight(rec, 4+worldCityNameSize*2, '0')
}

// DecodeWorldCity decodes a world-city reply frame. Only trailing zero
// bytes are stripped; embedded spaces in names like "NEW YORK" survive.
func DecodeWorldCity(frame []byte) (WorldCity, bool) {
	if len(frame) < 2 || Code(frame[0]) != CodeWorldCity {
		return WorldCity{}, false
	}
	name := frame[2:]
	for len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}
	return WorldCity{Slot: int(frame[1]), Name: string(name)}, true
}

// ParseCity extracts a watch-style city name from an IANA time-zone
// identifier: the segment after the first slash, upper-cased, with
// underscores turned into spaces. "America/New_York" becomes "NEW YORK".
// Identifiers without a slash yield "".
func ParseCity(timeZone string) string {
	parts := strings.Split(timeZone, "/")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(parts[1], "_", " "))
}
