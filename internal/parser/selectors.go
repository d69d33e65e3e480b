package parser

// Booking serves different markup to different experiment cohorts, so every
// lookup is an ordered list: structured data-testid markers first, then the
// older class based layouts.

// CardSelectors locate listing cards, most specific first.
var CardSelectors = []string{
	`[data-testid="property-card"]`,
	`[data-testid="property-card-container"]`,
	`div.sr_property_block`,
	`div[data-hotelid]`,
}

// ConsentSelectors locate a cookie banner accept control.
var ConsentSelectors = []string{
	`#onetrust-accept-btn-handler`,
	`button[id*="accept"]`,
	`button[data-gdpr-consent="accept"]`,
}

var (
	nameStrategies = strategies{
		{selector: `[data-testid="title"]`},
		{selector: `.sr-hotel__name`},
		{selector: `a.hotel_name_link`},
	}

	urlStrategies = strategies{
		{selector: `a[data-testid="title-link"]`, attr: "href"},
		{selector: `a.hotel_name_link`, attr: "href"},
		{selector: `a.js-sr-hotel-link`, attr: "href"},
	}

	priceStrategies = strategies{
		{selector: `[data-testid="price-and-discounted-price"]`},
		{selector: `.bui-price-display__value`},
		{selector: `.prco-valign-middle-helper`},
	}

	originalPriceStrategies = strategies{
		{selector: `[data-testid="price-and-discounted-price"] span[style*="text-decoration"]`},
		{selector: `[data-testid="strikethrough-price"]`},
		{selector: `.bui-price-display__original`},
		{selector: `.prco-inline-block-maker-helper del`},
	}

	ratingStrategies = strategies{
		{selector: `[data-testid="review-score"] div[aria-label*="Scored"]`},
		{selector: `.bui-review-score__badge`},
		{selector: `.review-score-badge`},
	}

	reviewCountStrategies = strategies{
		{selector: `[data-testid="review-score"] div:nth-child(2)`},
		{selector: `.bui-review-score__text`},
		{selector: `.review-score-widget__subtext`},
	}

	distanceStrategies = strategies{
		{selector: `[data-testid="distance"]`},
		{selector: `.distfromdest`},
		{selector: `.sr_card_address_line__dist`},
	}

	addressStrategies = strategies{
		{selector: `[data-testid="address"]`},
		{selector: `.sr_card_address_line`},
		{selector: `.address`},
	}

	imageStrategies = strategies{
		{selector: `img[data-testid="image"]`, attr: "src"},
		{selector: `img.hotel_image`, attr: "src"},
		{selector: `img.hotel_image`, attr: "data-src"},
	}
)
