package analyzer

// getBeneficialIngredients returns canonical tokens for well-evidenced actives
// and humectants. Matching is by substring against the ingredient name.
func getBeneficialIngredients() []string {
	return []string{
		"niacinamide", "hyaluronic acid", "sodium hyaluronate", "glycerin", "ceramide",
		"panthenol", "squalane", "centella asiatica", "madecassoside", "allantoin",
		"retinol", "retinal", "bakuchiol", "ascorbic acid", "ascorbyl glucoside",
		"tocopherol", "peptide", "adenosine", "azelaic acid", "salicylic acid",
		"lactic acid", "glycolic acid", "mandelic acid", "zinc oxide", "titanium dioxide",
		"green tea", "camellia sinensis", "snail secretion filtrate", "beta-glucan",
		"cholesterol", "urea", "arbutin", "tranexamic acid", "propolis", "licorice root",
	}
}

// getHarmfulIngredients returns tokens for ingredients commonly avoided in
// skincare. Matching is by substring against the ingredient name.
func getHarmfulIngredients() []string {
	return []string{
		"fragrance", "parfum", "alcohol denat", "sd alcohol", "isopropyl alcohol",
		"sodium lauryl sulfate", "formaldehyde", "dmdm hydantoin", "triclosan",
		"oxybenzone", "paraben", "methylisothiazolinone", "hydroquinone", "phthalate",
		"coal tar", "mineral oil",
	}
}

// getPreservatives returns tokens that indicate a formula carries a preservative system
func getPreservatives() []string {
	return []string{
		"phenoxyethanol", "paraben", "sodium benzoate", "potassium sorbate",
		"ethylhexylglycerin", "benzyl alcohol", "chlorphenesin", "caprylyl glycol",
		"1,2-hexanediol", "sorbic acid", "dehydroacetic acid",
	}
}

// getSpammyHashtags returns hashtag fragments associated with paid promotion
func getSpammyHashtags() []string {
	return []string{
		"ad", "ads", "sponsored", "sponsor", "promo", "promotion", "affiliate",
		"linkinbio", "gifted", "partner", "paidpartnership", "discount", "sale",
		"tiktokmademebuyit", "amazonfinds",
	}
}

// getOrganicHashtags returns hashtag fragments typical of organic skincare content
func getOrganicHashtags() []string {
	return []string{
		"skincare", "beauty", "selfcare", "routine", "review", "honestreview",
		"skintok", "kbeauty", "acne", "skin", "glowup", "favorites", "empties",
	}
}

// getDisclosureHashtags returns hashtags that are explicit sponsorship disclosures
func getDisclosureHashtags() map[string]bool {
	words := []string{"ad", "sponsored", "promo", "affiliate", "gifted"}

	disclosure := make(map[string]bool)
	for _, word := range words {
		disclosure[word] = true
	}
	return disclosure
}

// getPromotionalKeywords returns caption phrases that signal a commercial relationship
func getPromotionalKeywords() []string {
	return []string{
		"use my code", "use code", "discount code", "promo code", "link in bio",
		"link in my bio", "paid partnership", "partnered with", "in partnership with",
		"sponsored", "affiliate", "gifted", "#ad", "% off", "percent off",
		"shop now", "swipe up", "limited time", "commission",
	}
}

// getPlatformAvailability returns the fixed availability score per retail platform
func getPlatformAvailability() map[string]int {
	return map[string]int{
		"amazon":     90,
		"sephora":    85,
		"oliveyoung": 70,
		"yesstyle":   65,
	}
}
