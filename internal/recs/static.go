package recs

// DefaultStaticTrending pads the trending response when the provider
// comes back short or not at all.
var DefaultStaticTrending = []Doc{
	{ObjectID: "3017620422003", Name: "Hazelnut Spread", Image: "https://images.ecopantry.dev/3017620422003.jpg", NutriscoreGrade: "b", EcoGrade: "b", EcoScore: 82, Price: 3.49, Category: "spreads", Popularity: 96},
	{ObjectID: "8076800195057", Name: "Whole Grain Penne", Image: "https://images.ecopantry.dev/8076800195057.jpg", NutriscoreGrade: "a", EcoGrade: "a", EcoScore: 91, Price: 1.89, Category: "pasta", Popularity: 88},
	{ObjectID: "5411188112709", Name: "Oat Drink", Image: "https://images.ecopantry.dev/5411188112709.jpg", NutriscoreGrade: "a", EcoGrade: "a", EcoScore: 94, Price: 2.19, Category: "plant-based-drinks", Popularity: 85},
	{ObjectID: "3268640114291", Name: "Organic Chickpeas", Image: "https://images.ecopantry.dev/3268640114291.jpg", NutriscoreGrade: "a", EcoGrade: "a", EcoScore: 93, Price: 1.29, Category: "legumes", Popularity: 77},
	{ObjectID: "3560070462414", Name: "Apple Compote", Image: "https://images.ecopantry.dev/3560070462414.jpg", NutriscoreGrade: "a", EcoGrade: "b", EcoScore: 84, Price: 2.49, Category: "desserts", Popularity: 71},
	{ObjectID: "4099200177434", Name: "Rolled Oats", Image: "https://images.ecopantry.dev/4099200177434.jpg", NutriscoreGrade: "a", EcoGrade: "a", EcoScore: 95, Price: 1.09, Category: "breakfast", Popularity: 69},
	{ObjectID: "3270190207924", Name: "Green Lentils", Image: "https://images.ecopantry.dev/3270190207924.jpg", NutriscoreGrade: "a", EcoGrade: "a", EcoScore: 92, Price: 1.59, Category: "legumes", Popularity: 64},
	{ObjectID: "3229820782560", Name: "Muesli Raisin Fig", Image: "https://images.ecopantry.dev/3229820782560.jpg", NutriscoreGrade: "a", EcoGrade: "b", EcoScore: 81, Price: 3.19, Category: "breakfast", Popularity: 58},
}
