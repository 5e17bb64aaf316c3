package dataprocessing

import (
	"sort"

	"thermcli/pkg/contracts/domain"
)

// Report hard limits: excess channels are silently dropped, not errored.
const (
	MaxFurnaceChannels  = 5
	MaxSpecimenChannels = 35
)

// ClassifyChannels partitions channel ids into furnace (id in
// [furnaceMin, furnaceMax)) and specimen (all others) groups. Each group
// is sorted ascending and truncated to its hard cap.
func ClassifyChannels(channels []int, furnaceMin, furnaceMax int) domain.ChannelGroups {
	var furnace, specimen []int
	for _, ch := range channels {
		if ch >= furnaceMin && ch < furnaceMax {
			furnace = append(furnace, ch)
		} else {
			specimen = append(specimen, ch)
		}
	}
	sort.Ints(furnace)
	sort.Ints(specimen)

	if len(furnace) > MaxFurnaceChannels {
		furnace = furnace[:MaxFurnaceChannels]
	}
	if len(specimen) > MaxSpecimenChannels {
		specimen = specimen[:MaxSpecimenChannels]
	}

	return domain.ChannelGroups{
		Furnace:  furnace,
		Specimen: specimen,
	}
}
