package ytspam

import (
	"fmt"
	"regexp"
)

// fixed signal category ids
const (
	CategoryCryptoFinancial  = "crypto-financial"
	CategorySeedPhrase       = "seed-phrase-scam"
	CategoryFinancialPromise = "financial-promise"
	CategoryContact          = "contact-solicitation"
	CategoryPlatformRedirect = "platform-redirect"
	CategoryPhishingLink     = "phishing-link"
	CategorySelfPromotion    = "self-promotion"
	CategoryProductPromotion = "product-promotion"
	CategoryBotPattern       = "bot-pattern"
	CategoryImpersonation    = "impersonation"
	CategoryAdultContent     = "adult-content"
	CategoryEngagementBait   = "engagement-bait"
	CategoryObfuscation      = "obfuscation"
)

// defaultWeights are the per-category score contributions. A category adds
// its weight at most once per comment no matter how many patterns fire.
// Tunable defaults, overridable via Config.Weights.
var defaultWeights = map[string]float64{
	CategoryCryptoFinancial:  0.50,
	CategorySeedPhrase:       0.75,
	CategoryFinancialPromise: 0.60,
	CategoryContact:          0.45,
	CategoryPlatformRedirect: 0.55,
	CategoryPhishingLink:     0.40,
	CategorySelfPromotion:    0.40,
	CategoryProductPromotion: 0.45,
	CategoryBotPattern:       0.35,
	CategoryImpersonation:    0.50,
	CategoryAdultContent:     0.60,
	CategoryEngagementBait:   0.15,
	CategoryObfuscation:      0.25,
}

// categoryDefs is the data table driving the signal detector: category id to
// its regex patterns, matched against the normalized text. The slice order is
// the match-reporting order. Structural checks (phone shapes, author-name
// shapes, emoji flood, obfuscation evidence) are attached to their categories
// in the detector, not listed here.
var categoryDefs = []struct {
	id       string
	patterns []string
}{
	{
		id: CategoryCryptoFinancial,
		patterns: []string{
			`\b(crypto|bitcoin|btc|ethereum|eth|altcoin|blockchain|nft|binance|coinbase|kraken|kucoin|bybit|okx|bitget|mexc)\b`,
			`\b(usdt|usdc|tether|dogecoin|doge|shiba|pepe|defi|yield\s*farm(ing)?|staking|airdrop|presale|web3|metaverse|token|ico|ido)\b`,
			`\b(forex|fx\s*trading|binary\s*options?|trading\s*(signals?|bots?|group)|10x|100x|1000x|moon(ing)?|lambo|hodl|wagmi|ngmi|fomo|fud)\b`,
			`\binvest(ing|ments?|ors?)?\b`,
		},
	},
	{
		id: CategorySeedPhrase,
		patterns: []string{
			`\b(seed\s*phrase|recovery\s*phrase|mnemonic|12\s*words?|24\s*words?|multi.?sig(nature)?)`,
			`\b(help\s*(me\s*)?(transfer|withdraw|access)|share\s*\d+%|split\s*(the\s*)?(profits?|funds))`,
			`\b(stuck\s*(in\s*)?(wallet|exchange)|can.?t\s*(access|withdraw)|need\s*(help|gas|fee)s?\s*to\s*(transfer|withdraw))`,
		},
	},
	{
		id: CategoryFinancialPromise,
		patterns: []string{
			`\$\d{1,3}(,?\d{3})*(\.\d{2})?\s*(per|a|every|each)\s*(day|week|month|hour)`,
			`\b(guaranteed\s*(returns?|profits?|income)|double\s*your\s*(money|investment)|risk\s*free|(no|zero)\s*risk)\b`,
			`\d+%\s*(daily|weekly|monthly|roi|returns?|profits?)`,
			`\b(turn|transform|convert)\s*\$?\d+k?\s*(into|to)\s*\$?\d+`,
			`\b(make|earn)\s*\$\d+k?\+?\s*(a\s*|per\s*)?(day|daily|week(ly)?|month(ly)?|passive)`,
			`\b(passive\s*income|financial\s*freedom|quit\s*(your\s*)?(job|9.?5))`,
		},
	},
	{
		id: CategoryContact,
		patterns: []string{
			`\b(contact|message|text|dm|pm|inbox|reach)\s*(me|us)\b`,
			`\b(whatsapp|telegram|signal|wechat|viber|discord|snapchat)\s*(me|us|now|today|asap)\b`,
			`\bsend\s*(a\s*)?(dm|pm|message)\b`,
			`\b(hit|slide\s*into)\s*(my|the)\s*(dms?|inbox)\b`,
			`\b(add|follow)\s*me\s*on\b`,
			`\bchat\s*with\s*(me|us)\b`,
		},
	},
	{
		id: CategoryPlatformRedirect,
		patterns: []string{
			`t\.me/[a-z0-9_]+`,
			`wa\.me/\d+`,
			`chat\.whatsapp\.com/[a-z0-9]+`,
			`discord\.(gg|com/invite)/[a-z0-9]+`,
			`@[a-z0-9_]+\s*(on\s*)?(telegram|whatsapp|insta(gram)?|ig)\b`,
			`\bon\s*(whatsapp|telegram|signal)\b`,
		},
	},
	{
		id: CategoryPhishingLink,
		patterns: []string{
			`\b(bit\.ly|tinyurl\.com|t\.co|goo\.gl|ow\.ly|buff\.ly|rebrand\.ly|short\.link|linktr\.ee)/\S+`,
			`\b(cutt\.ly|rb\.gy|is\.gd|v\.gd|shorte\.st|adf\.ly|trib\.al|soo\.gd|s\.id)/\S+`,
		},
	},
	{
		id: CategorySelfPromotion,
		patterns: []string{
			`\b(check\s*(out\s*)?|visit\s*|watch\s*|subscribe\s*(to\s*)?|follow\s*)(my|our)\s*(new\s*)?(channel|page|profile|account|videos?|content|link|podcast)\b`,
			`\bcheck\s*my\s*(similar\s*)?(content|videos?)\b`,
			`\bsub(scribe)?\s*to\s*(my|our|the)\b`,
			`\blink\s*(in|on)\s*(my\s*)?(bio|profile|description|about)\b`,
			`\b(click|tap)\s*(the\s*)?link\b|\blink\s*below\b`,
			`\bsupport\s*(my|our)\s*(channel|content)\b`,
			`\b(i\s*(also\s*)?(make|create|post)\s*(similar\s*)?(content|videos?))\b`,
		},
	},
	{
		id: CategoryProductPromotion,
		patterns: []string{
			`\bmy\s*(new\s*)?(book|ebook|e-book|guide|course|program|masterclass)\b`,
			`\b(book|ebook)\s*(available|out\s*now|on\s*amazon)\b`,
			`\b(get|download)\s*(my|the|your)\s*(free\s*)?(copy|ebook|guide|book|pdf)\b`,
			`\b(available|order|buy)\s*(now\s*)?on\s*(amazon|kindle|audible)\b`,
			`\bbuy\s*my\s*(course|book|guide)\b`,
			`#(ad|sponsored|affiliate)\b`,
			`\b(amazon|etsy|ebay)\.com/\S+`,
		},
	},
	{
		id: CategoryBotPattern,
		patterns: []string{
			`\[(name|product|link|url)\]|<\s*insert\b[^>]*>|\[\s*your\b[^\]]*\]`,
			`\b(this\s*(video\s*)?changed\s*my\s*life|i\s*was\s*struggling\s*until|finally\s*found\s*(the\s*)?(solution|answer))\b`,
			`\b(best\s*decision\s*i\s*(ever\s*)?made|wish\s*i\s*(had\s*)?(found|known)\s*(about\s*)?this\s*sooner)\b`,
			`\b(this\s*is\s*exactly\s*what\s*i\s*needed|can.?t\s*believe\s*(this\s*)?(actually\s*)?works?)\b`,
			`\b(life\s*changing|game\s*changer|i\s*started\s*(and|then)\s*never\s*looked\s*back)\b`,
		},
	},
	{
		id: CategoryImpersonation,
		patterns: []string{
			`\bpinned\s*(by|comment|message)\b`,
			`\bofficial\s*(pinned|announcement|message)\b`,
			`\bread\s*my\s*pinned\b`,
			`\bi.?m\s*(the\s*)?(official|verified)\b`,
		},
	},
	{
		id: CategoryAdultContent,
		patterns: []string{
			`\b(onlyfans|18\+|adult\s*content|xxx|porn|nudes?|hookup|horny)\b`,
			`\bsexy\s*(pics?|photos?|videos?)\b`,
			`\bdating\s*(site|app)\b`,
		},
	},
	{
		id: CategoryEngagementBait,
		patterns: []string{
			`\b(like|comment)\s*if\s*you\b`,
			`\blike\s*this\s*comment\s*(if|so)\b`,
			`\bwho.?s?\s*(else\s*)?(still\s*)?(here|watching|listening)\s*(this\s*)?(in\s*|from\s*)?20\d{2}\b`,
			`\banyone\s*(else\s*)?(here\s*)?(in|from)\s*20\d{2}\b`,
			`^(first|second|third)[!.\s]*$`,
			`\b(early|notification)\s*squad\b`,
		},
	},
	{
		id: CategoryObfuscation, // structural only, fires on pre-normalization evidence
	},
}

// category is a compiled table entry.
type category struct {
	id       string
	weight   float64
	patterns []*regexp.Regexp
}

// compileCategories builds the registry from the data table, applying weight
// overrides. Compilation happens once per Detector, never per comment.
func compileCategories(overrides map[string]float64) ([]category, error) {
	for id, w := range overrides {
		if _, ok := defaultWeights[id]; !ok {
			return nil, fmt.Errorf("weight override for unknown category %q", id)
		}
		if w <= 0 || w > 1 {
			return nil, fmt.Errorf("weight for category %q is %v, must be in (0,1]", id, w)
		}
	}

	res := make([]category, 0, len(categoryDefs))
	for _, def := range categoryDefs {
		weight := defaultWeights[def.id]
		if w, ok := overrides[def.id]; ok {
			weight = w
		}
		cat := category{id: def.id, weight: weight}
		for _, src := range def.patterns {
			re, err := regexp.Compile("(?i)" + src)
			if err != nil {
				return nil, fmt.Errorf("can't compile pattern %q for category %s: %w", src, def.id, err)
			}
			cat.patterns = append(cat.patterns, re)
		}
		res = append(res, cat)
	}
	return res, nil
}
