package services

import "github.com/dmitrijs2005/flipkeeper/internal/node/models"

// dictionary is the keyword list flip pairs index into.
var dictionary = []models.Keyword{
	{Name: "apple", Desc: "Fruit of the apple tree"},
	{Name: "bicycle", Desc: "Two-wheeled vehicle driven by pedals"},
	{Name: "candle", Desc: "Wax stick with a wick that gives light"},
	{Name: "door", Desc: "Hinged barrier at the entrance of a room"},
	{Name: "egg", Desc: "Oval object laid by a bird"},
	{Name: "feather", Desc: "One of the light growths covering a bird"},
	{Name: "guitar", Desc: "Stringed musical instrument"},
	{Name: "hammer", Desc: "Tool for driving nails"},
	{Name: "island", Desc: "Land surrounded by water"},
	{Name: "jacket", Desc: "Short coat"},
	{Name: "kettle", Desc: "Container for boiling water"},
	{Name: "ladder", Desc: "Set of rungs for climbing"},
	{Name: "mirror", Desc: "Surface that reflects an image"},
	{Name: "needle", Desc: "Thin pointed tool for sewing"},
	{Name: "orange", Desc: "Round citrus fruit"},
	{Name: "pillow", Desc: "Cushion for the head"},
	{Name: "queen", Desc: "Female monarch"},
	{Name: "rocket", Desc: "Vehicle propelled by a jet engine"},
	{Name: "shovel", Desc: "Tool for digging"},
	{Name: "tent", Desc: "Portable fabric shelter"},
	{Name: "umbrella", Desc: "Folding canopy against rain"},
	{Name: "violin", Desc: "Bowed string instrument"},
	{Name: "window", Desc: "Opening in a wall fitted with glass"},
	{Name: "yacht", Desc: "Sailing boat"},
	{Name: "zipper", Desc: "Fastener with interlocking teeth"},
}

func validPair(pair *[2]int) bool {
	if pair == nil {
		return true
	}
	for _, i := range pair {
		if i < 0 || i >= len(dictionary) {
			return false
		}
	}
	return true
}

// Keywords returns the words a pair refers to, nil for no pair or an
// out of range one.
func Keywords(pair *[2]int) []models.Keyword {
	if pair == nil || !validPair(pair) {
		return nil
	}
	return []models.Keyword{dictionary[pair[0]], dictionary[pair[1]]}
}
