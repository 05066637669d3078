package knowledge

// defaultTopicEntries returns the built-in dataset for one topic. Used
// whenever no external source provides the topic.
func defaultTopicEntries(topic string) []KeyedEntry {
	switch topic {
	case "crops":
		return defaultCrops()
	case "pests":
		return defaultPests()
	case "soil":
		return defaultSoil()
	case "weather":
		return defaultWeather()
	case "general":
		return defaultGeneral()
	}
	return nil
}

func defaultCrops() []KeyedEntry {
	return []KeyedEntry{
		{Key: "rice", Entry: NewEntry(
			Str("name", "Rice"),
			Str("description", "Rice is a staple cereal grain and one of the most important crops worldwide."),
			Str("growing_tips", "• Plant in flooded fields\n• Requires warm climate\n• 120-150 days to maturity\n• pH 5.5-6.5 preferred"),
			Str("season", "Monsoon season (June-October)"),
			Strs("pests", "Brown planthopper", "Rice stem borer", "Blast disease"),
		)},
		{Key: "wheat", Entry: NewEntry(
			Str("name", "Wheat"),
			Str("description", "Wheat is a cereal grain that is a worldwide staple food."),
			Str("growing_tips", "• Cool, dry climate preferred\n• Well-drained soil\n• 100-130 days to harvest\n• pH 6.0-7.0 optimal"),
			Str("season", "Winter season (November-April)"),
			Strs("pests", "Aphids", "Rust diseases", "Hessian fly"),
		)},
		{Key: "tomato", Entry: NewEntry(
			Str("name", "Tomato"),
			Str("description", "Tomatoes are versatile fruits used in cooking worldwide."),
			Str("growing_tips", "• Warm weather crop\n• Rich, well-drained soil\n• Regular watering\n• Support with stakes"),
			Str("season", "Summer season (March-June)"),
			Strs("pests", "Tomato hornworm", "Aphids", "Blight diseases"),
		)},
		{Key: "potato", Entry: NewEntry(
			Str("name", "Potato"),
			Str("description", "Potatoes are underground tubers that are a major food crop."),
			Str("growing_tips", "• Cool weather preferred\n• Loose, fertile soil\n• Hill up plants regularly\n• Consistent moisture"),
			Str("season", "Winter season (October-February)"),
			Strs("pests", "Colorado potato beetle", "Late blight", "Aphids"),
		)},
		{Key: "corn", Entry: NewEntry(
			Str("name", "Corn (Maize)"),
			Str("description", "Corn is a cereal grain that serves as food for humans and livestock."),
			Str("growing_tips", "• Warm season crop\n• Full sun exposure\n• Rich, well-drained soil\n• Adequate spacing for pollination"),
			Str("season", "Summer season (April-August)"),
			Strs("pests", "Corn borer", "Armyworm", "Corn smut"),
		)},
	}
}

func defaultPests() []KeyedEntry {
	return []KeyedEntry{
		{Key: "aphids", Entry: NewEntry(
			Str("name", "Aphids"),
			Str("description", "Small, soft-bodied insects that feed on plant sap."),
			Str("treatment", "Use neem oil spray, introduce ladybugs, or use insecticidal soap."),
			Str("prevention", "Regular inspection, avoid over-fertilization"),
		)},
		{Key: "caterpillars", Entry: NewEntry(
			Str("name", "Caterpillars"),
			Str("description", "Larvae of moths and butterflies that eat plant leaves."),
			Str("treatment", "Hand picking, Bt spray, or appropriate insecticides."),
			Str("prevention", "Row covers, companion planting"),
		)},
	}
}

func defaultSoil() []KeyedEntry {
	return []KeyedEntry{
		{Key: "ph_testing", Entry: NewEntry(
			Str("description", "Soil pH affects nutrient availability to plants."),
			Str("recommendations", "Test pH annually. Most crops prefer pH 6.0-7.0. Use lime to raise pH, sulfur to lower it."),
		)},
		{Key: "composting", Entry: NewEntry(
			Str("description", "Composting creates rich organic matter for soil improvement."),
			Str("recommendations", "Mix green and brown materials, maintain moisture, turn regularly for aeration."),
		)},
	}
}

func defaultWeather() []KeyedEntry {
	return []KeyedEntry{
		{Key: "seasonal_planning", Entry: NewEntry(
			Str("description", "Planning crops according to seasonal weather patterns."),
			Str("recommendations", "Plant warm-season crops after last frost, cool-season crops in fall/winter."),
		)},
	}
}

func defaultGeneral() []KeyedEntry {
	return []KeyedEntry{
		{Key: "organic_farming", Entry: NewEntry(
			Str("description", "Farming without synthetic chemicals, focusing on natural methods."),
			Str("recommendations", "Use compost, crop rotation, biological pest control, and cover crops."),
		)},
	}
}
