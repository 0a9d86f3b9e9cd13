// SPDX-License-Identifier: MIT

package rakuten

// ChannelsDocument is the raw live_channels catalog payload. Field absence is
// tolerated everywhere; the normalizer substitutes documented sentinels.
type ChannelsDocument struct {
	Data []Station `json:"data"`
}

// Station is one raw channel/station record from the catalog.
type Station struct {
	ID            string  `json:"id"`
	NumericalID   *int    `json:"numerical_id"`
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	ChannelNumber *int    `json:"channel_number"`
	Labels        *Labels `json:"labels"`
	Images        *Images `json:"images"`
}

// Labels is the nested label structure carrying language identifiers.
type Labels struct {
	Languages []Language `json:"languages"`
}

// Language is one audio/subtitle language entry.
type Language struct {
	ID string `json:"id"`
}

// Images carries presentation artwork for a station.
type Images struct {
	Artwork string `json:"artwork"`
}

// CategoriesDocument is the raw live_channel_categories payload. Categories
// are declared independently of the channel listing and reference member
// channels by id.
type CategoriesDocument struct {
	Data []Category `json:"data"`
}

// Category is one upstream-declared group with its member channel ids.
type Category struct {
	Name         string   `json:"name"`
	LiveChannels []string `json:"live_channels"`
}

// StreamingsDocument is the raw avod/streamings response for one channel.
type StreamingsDocument struct {
	Data struct {
		StreamInfos []StreamInfo `json:"stream_infos"`
	} `json:"data"`
}

// StreamInfo is one playable stream variant.
type StreamInfo struct {
	URL string `json:"url"`
}
