package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// MemStore serves the built-in sample catalog.
type MemStore struct {
	products []Product
}

func NewMemStore() *MemStore {
	return &MemStore{products: SampleProducts()}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func was(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }

func unsplash(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "https://images.unsplash.com/" + id + "?w=600&q=80"
	}
	return out
}

func SampleProducts() []Product {
	return []Product{
		{
			ID:            1,
			Name:          "Obsidian Ceramic Vase",
			Category:      CategoryHome,
			Price:         price(189),
			OriginalPrice: was(240),
			Rating:        4.8,
			ReviewCount:   124,
			Badge:         "Bestseller",
			Description:   "Hand-thrown from raw black stoneware. Each piece bears the marks of the maker: subtle, intentional, irrepeatable. Glazed with a matte obsidian finish that catches light like volcanic glass.",
			Details: []string{
				"Hand-thrown stoneware",
				"Matte obsidian glaze",
				"H: 32cm, W: 14cm",
				"Food safe, dishwasher safe",
				"Made in Portugal",
			},
			Images: unsplash(
				"photo-1612196808214-b8e1d6145a8c",
				"photo-1602143407151-7111542de6e8",
				"photo-1578500494198-246f612d3b3d",
			),
			Tags: []string{"ceramic", "vase", "decor"},
		},
		{
			ID:            2,
			Name:          "Woven Linen Throw",
			Category:      CategoryHome,
			Price:         price(124),
			Rating:        4.9,
			ReviewCount:   89,
			Description:   "Loomed from 100% European flax on traditional shuttle looms. The irregular weave creates a living texture, no two throws are identical. Grows softer with every wash.",
			Details: []string{
				"100% European flax linen",
				"130cm × 170cm",
				"Machine washable 40°C",
				"OEKO-TEX certified",
				"Made in Lithuania",
			},
			Images: unsplash(
				"photo-1580301762395-21ce84d00bc6",
				"photo-1555041469-a586c61ea9bc",
				"photo-1506439773649-6e0eb8cfb237",
			),
			Tags: []string{"linen", "textile", "throw"},
		},
		{
			ID:            3,
			Name:          "Brass Desk Lamp",
			Category:      CategoryLighting,
			Price:         price(295),
			OriginalPrice: was(380),
			Rating:        4.7,
			ReviewCount:   56,
			Badge:         "Sale",
			Description:   "Articulated in solid unlacquered brass that patinas naturally over years of use. The pivoting arm and adjustable shade let you sculpt light precisely where you need it.",
			Details: []string{
				"Solid unlacquered brass",
				"LED compatible (E27)",
				"Arm reach: 45cm",
				"Hand-polished finish",
				"3-year warranty",
			},
			Images: unsplash(
				"photo-1507473885765-e6ed057f782c",
				"photo-1524484485831-a92ffc0de03f",
				"photo-1513506003901-1e6a35f3cd9c",
			),
			Tags: []string{"brass", "lamp", "lighting"},
		},
		{
			ID:            4,
			Name:          "Raw Edge Walnut Board",
			Category:      CategoryKitchen,
			Price:         price(98),
			Rating:        4.6,
			ReviewCount:   203,
			Description:   "Cut from a single slab of American black walnut, live edge preserved. The natural grain becomes a story: growth rings, knots, and all the evidence of a long life.",
			Details: []string{
				"Solid American black walnut",
				"Approx. 45cm × 28cm",
				"Food-grade mineral oil finish",
				"Hand-sanded to 400 grit",
				"Made in Vermont, USA",
			},
			Images: unsplash(
				"photo-1590794056226-79ef3a8147e1",
				"photo-1584568694244-14fbdf83bd30",
				"photo-1556909114-f6e7ad7d3136",
			),
			Tags: []string{"walnut", "kitchen", "cutting board"},
		},
		{
			ID:            5,
			Name:          "Merino Wool Cardigan",
			Category:      CategoryFashion,
			Price:         price(215),
			OriginalPrice: was(275),
			Rating:        4.9,
			ReviewCount:   341,
			Badge:         "New",
			Description:   "Knitted from ultra-fine 17.5-micron merino. Drapes with the authority of cashmere, breathes with the intelligence of wool. A cardigan for every season.",
			Details: []string{
				"100% Merino wool (17.5 micron)",
				"Regular fit",
				"Sizes: XS–XXL",
				"Hand wash cold / dry flat",
				"Manufactured ethically in Italy",
			},
			Images: unsplash(
				"photo-1434389677669-e08b4cac3105",
				"photo-1576566588028-4147f3842f27",
				"photo-1516762689617-e1cffcef479d",
			),
			Tags: []string{"merino", "cardigan", "fashion"},
		},
		{
			ID:            6,
			Name:          "Leather Journal",
			Category:      CategoryStationery,
			Price:         price(65),
			Rating:        4.8,
			ReviewCount:   178,
			Description:   "Vegetable-tanned full-grain leather that develops a rich patina. Lay-flat binding with 240 pages of 90gsm acid-free paper. A journal that earns its scars.",
			Details: []string{
				"Full-grain vegetable-tanned leather",
				"240 pages, 90gsm acid-free",
				"Lay-flat Smyth-sewn binding",
				"A5 format (148mm × 210mm)",
				"Handmade in Florence",
			},
			Images: unsplash(
				"photo-1544716278-ca5e3f4abd8c",
				"photo-1455720288655-74a62e52f1d8",
				"photo-1531346680769-a1d79b57de5c",
			),
			Tags: []string{"leather", "journal", "stationery"},
		},
		{
			ID:            7,
			Name:          "Stone Pestle & Mortar",
			Category:      CategoryKitchen,
			Price:         price(78),
			Rating:        4.7,
			ReviewCount:   92,
			Description:   "Hewn from a single piece of volcanic basalt. The porous surface releases natural oils from spices without heat, unlocking flavors that blades simply cannot achieve.",
			Details: []string{
				"Solid volcanic basalt stone",
				"ø 16cm, 2.8kg",
				"Unpolished interior for grip",
				"Hand-chiselled exterior",
				"Made in Thailand",
			},
			Images: unsplash(
				"photo-1615485290382-441e4d049cb5",
				"photo-1585515320310-259814833e62",
				"photo-1556909114-f6e7ad7d3136",
			),
			Tags: []string{"stone", "kitchen", "mortar"},
		},
		{
			ID:            8,
			Name:          "Pendant Ceiling Light",
			Category:      CategoryLighting,
			Price:         price(340),
			OriginalPrice: was(420),
			Rating:        4.5,
			ReviewCount:   47,
			Badge:         "Sale",
			Description:   "A sculptural globe of mouth-blown smoke glass, suspended from hand-spun brass hardware. Diffuses warm light into something like a mood.",
			Details: []string{
				"Mouth-blown smoke glass",
				"Solid brass hardware",
				"ø 28cm globe",
				"3m fabric cord (adjustable)",
				"Compatible with dimmers",
			},
			Images: unsplash(
				"photo-1524484485831-a92ffc0de03f",
				"photo-1565814329452-e1efa11c5b89",
				"photo-1507473885765-e6ed057f782c",
			),
			Tags: []string{"glass", "pendant", "lighting"},
		},
		{
			ID:            9,
			Name:          "Silk Pillowcase Set",
			Category:      CategoryHome,
			Price:         price(88),
			Rating:        4.8,
			ReviewCount:   267,
			Badge:         "New",
			Description:   "22-momme mulberry silk. The weight of it on your face is an education in luxury. Reduces friction, retains moisture, and keeps you cooler than any cotton can.",
			Details: []string{
				"22-momme Grade 6A mulberry silk",
				"Set of 2 standard pillowcases",
				"51cm × 76cm",
				"Hidden zip closure",
				"Hand wash or cold machine wash",
			},
			Images: unsplash(
				"photo-1631049307264-da0ec9d70304",
				"photo-1617325247661-675ab4b64ae2",
				"photo-1540518614846-7eded433c457",
			),
			Tags: []string{"silk", "pillowcase", "bedding"},
		},
		{
			ID:            10,
			Name:          "Fine Merino Scarf",
			Category:      CategoryFashion,
			Price:         price(95),
			Rating:        4.6,
			ReviewCount:   134,
			Description:   "240cm of fine merino in a simple rib. Long enough to wrap twice, light enough to forget you're wearing it. The only scarf you'll need for ten years.",
			Details: []string{
				"100% superfine merino (19 micron)",
				"240cm × 35cm",
				"Rib knit construction",
				"Dry clean or hand wash cold",
				"Made in Scotland",
			},
			Images: unsplash(
				"photo-1520903920243-00d872a2d1c9",
				"photo-1509631179647-0177331693ae",
				"photo-1434389677669-e08b4cac3105",
			),
			Tags: []string{"merino", "scarf", "fashion"},
		},
		{
			ID:            11,
			Name:          "Copper Pour-Over Kettle",
			Category:      CategoryKitchen,
			Price:         price(145),
			OriginalPrice: was(185),
			Rating:        4.9,
			ReviewCount:   88,
			Badge:         "Bestseller",
			Description:   "Hammered copper with a gooseneck spout precision-engineered for a 3–4mm water flow. Brews like a ritual. The copper heats evenly and looks better every year.",
			Details: []string{
				"Hammered solid copper body",
				"Tin-lined interior",
				"0.9L capacity",
				"Compatible with all hobs incl. induction",
				"Thermometer included",
			},
			Images: unsplash(
				"photo-1495474472287-4d71bcdd2085",
				"photo-1509042239860-f550ce710b93",
				"photo-1447933601403-0c6688de566e",
			),
			Tags: []string{"copper", "kettle", "coffee"},
		},
		{
			ID:            12,
			Name:          "Oak Floating Shelf Set",
			Category:      CategoryHome,
			Price:         price(112),
			Rating:        4.7,
			ReviewCount:   156,
			Description:   "Three shelves in solid white oak, finished with a single coat of natural hardwax oil. Wall hardware concealed. The result: shelves that look like they're growing from the wall.",
			Details: []string{
				"Solid white oak, 3-piece set",
				"40cm / 60cm / 80cm widths",
				"Hidden bracket system",
				"Natural hardwax oil finish",
				"Max load: 15kg per shelf",
			},
			Images: unsplash(
				"photo-1555041469-a586c61ea9bc",
				"photo-1493663284031-b7e3aaa4df33",
				"photo-1558618666-fcd25c85cd64",
			),
			Tags: []string{"oak", "shelf", "home"},
		},
	}
}
