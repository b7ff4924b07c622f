package database

import (
	"worldstage/models"

	"gorm.io/datatypes"
)

// 初期カタログ。codeをキーに冪等に投入する

var seedCountries = []models.Country{
	{Name: "Aurelia", Code: "AUR", PositionX: 120, PositionY: 140, ColorHex: "#E4572E", CapitalName: "Solmere", GovernmentType: "Constitutional Monarchy", Description: "Sun-baked coastal kingdom with deep harbours."},
	{Name: "Borealis", Code: "BOR", PositionX: 310, PositionY: 60, ColorHex: "#4C6EF5", CapitalName: "Frostholm", GovernmentType: "Federal Republic", Description: "Northern federation rich in timber and ore."},
	{Name: "Caldera", Code: "CAL", PositionX: 480, PositionY: 210, ColorHex: "#C92A2A", CapitalName: "Emberhall", GovernmentType: "Military Junta", Description: "Volcanic highlands ruled by a war council."},
	{Name: "Deltora", Code: "DEL", PositionX: 220, PositionY: 330, ColorHex: "#2B8A3E", CapitalName: "Riverreach", GovernmentType: "Parliamentary Democracy", Description: "Fertile river delta and breadbasket of the continent."},
	{Name: "Estmark", Code: "EST", PositionX: 640, PositionY: 120, ColorHex: "#F59F00", CapitalName: "Goldgate", GovernmentType: "Merchant Republic", Description: "Trading hub at the crossroads of the eastern routes."},
	{Name: "Fenwick", Code: "FEN", PositionX: 560, PositionY: 380, ColorHex: "#5F3DC4", CapitalName: "Mistvale", GovernmentType: "Theocracy", Description: "Marshland realm guided by an ancient order."},
	{Name: "Galdor", Code: "GAL", PositionX: 90, PositionY: 420, ColorHex: "#0B7285", CapitalName: "Tidewatch", GovernmentType: "Federal Republic", Description: "Archipelago of fishing towns and shipyards."},
	{Name: "Hestia", Code: "HES", PositionX: 400, PositionY: 460, ColorHex: "#E64980", CapitalName: "Hearthstone", GovernmentType: "Social Democracy", Description: "Temperate valleys famous for culture and the arts."},
	{Name: "Iskar", Code: "ISK", PositionX: 760, PositionY: 260, ColorHex: "#868E96", CapitalName: "Stonegate", GovernmentType: "Absolute Monarchy", Description: "Mountain fortress nation guarding the high passes."},
	{Name: "Jorvik", Code: "JOR", PositionX: 700, PositionY: 470, ColorHex: "#A0522D", CapitalName: "Ironbridge", GovernmentType: "Industrial Oligarchy", Description: "Smokestack cities built on coal and steel."},
	{Name: "Kestrel", Code: "KES", PositionX: 840, PositionY: 90, ColorHex: "#12B886", CapitalName: "Windspire", GovernmentType: "Direct Democracy", Description: "Windswept plateau of free cantons."},
	{Name: "Lumeria", Code: "LUM", PositionX: 330, PositionY: 250, ColorHex: "#FAB005", CapitalName: "Lightfall", GovernmentType: "Technocracy", Description: "Scholarly state organised around its great universities."},
}

var seedBuildingTypes = []models.BuildingType{
	{
		Code: "factory", Name: "Factory", Category: "economic",
		Description: "Produces money and materials for your economy",
		CostMoney:   1000, CostMaterials: 500,
		Effects: datatypes.NewJSONType(models.BuildingEffects{
			MoneyPerHour: 200.0 / 24, MaterialsPerHour: 100.0 / 24, PopulationGrowth: 50, HappinessBonus: -5,
		}),
	},
	{
		Code: "barracks", Name: "Barracks", Category: "military",
		Description: "Trains soldiers and secures your borders",
		CostMoney:   800, CostMaterials: 600,
		Effects: datatypes.NewJSONType(models.BuildingEffects{
			MaterialsPerHour: 50.0 / 24, PopulationGrowth: 30, HappinessBonus: 10,
		}),
	},
	{
		Code: "university", Name: "University", Category: "research",
		Description: "Educates your citizens and speeds up research",
		CostMoney:   1200, CostMaterials: 400,
		Effects: datatypes.NewJSONType(models.BuildingEffects{
			MoneyPerHour: 50.0 / 24, PopulationGrowth: 100, HappinessBonus: 15,
		}),
	},
	{
		Code: "cultural_center", Name: "Cultural Center", Category: "cultural",
		Description: "Boost happiness and cultural influence",
		CostMoney:   900, CostMaterials: 300,
		Effects: datatypes.NewJSONType(models.BuildingEffects{
			MoneyPerHour: 100.0 / 24, PopulationGrowth: 20, HappinessBonus: 25,
		}),
	},
}

type seedTechnology struct {
	tech     models.Technology
	requires []string
}

var seedTechnologies = []seedTechnology{
	{tech: models.Technology{Code: "advanced_economics", Name: "Advanced Economics", Category: "economic", Tier: 1, ResearchCost: 1500, ResearchTimeHours: 72,
		Description: "Unlock sophisticated economic models and increase money generation"}},
	{tech: models.Technology{Code: "industrial_automation", Name: "Industrial Automation", Category: "economic", Tier: 2, ResearchCost: 2500, ResearchTimeHours: 96,
		Description: "Automate production processes for massive efficiency gains"}, requires: []string{"advanced_economics"}},
	{tech: models.Technology{Code: "military_doctrine", Name: "Modern Military Doctrine", Category: "military", Tier: 1, ResearchCost: 1200, ResearchTimeHours: 72,
		Description: "Advanced military strategies and unit coordination"}},
	{tech: models.Technology{Code: "cyber_warfare", Name: "Cyber Warfare", Category: "military", Tier: 2, ResearchCost: 2000, ResearchTimeHours: 96,
		Description: "Digital espionage and defense capabilities"}, requires: []string{"military_doctrine"}},
	{tech: models.Technology{Code: "mass_media", Name: "Mass Media", Category: "cultural", Tier: 1, ResearchCost: 1000, ResearchTimeHours: 48,
		Description: "Broadcast your culture and influence across the globe"}},
	{tech: models.Technology{Code: "social_networks", Name: "Social Networks", Category: "cultural", Tier: 2, ResearchCost: 1800, ResearchTimeHours: 72,
		Description: "Connect your citizens and influence global opinion"}, requires: []string{"mass_media"}},
	{tech: models.Technology{Code: "renewable_energy", Name: "Renewable Energy", Category: "environmental", Tier: 1, ResearchCost: 1600, ResearchTimeHours: 72,
		Description: "Clean energy solutions for sustainable development"}},
	{tech: models.Technology{Code: "climate_engineering", Name: "Climate Engineering", Category: "environmental", Tier: 2, ResearchCost: 3000, ResearchTimeHours: 120,
		Description: "Advanced weather control and environmental restoration"}, requires: []string{"renewable_energy"}},
}
