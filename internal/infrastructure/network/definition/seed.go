package networkdefinition

import (
	"strings"

	"network_registry/internal/domain/entity"
)

// Predefined network records. These keep the registry functional with no
// network access at all; remote enrichment may append endpoints but never
// replaces anything here.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.ChainRecord{
		ChainID:      "0x1",
		DisplayName:  "Ethereum Mainnet",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://ethereum-rpc.publicnode.com",
			"https://rpc.ankr.com/eth",
			"https://eth.llamarpc.com",
		},
		BlockExplorerURL: "https://etherscan.io",
		ShortName:        "eth",
		Slug:             "ethereum-mainnet",
		Static:           true,
	}
	Sepolia = entity.ChainRecord{
		ChainID:      "0xaa36a7",
		DisplayName:  "Sepolia",
		NativeSymbol: "ETH",
		NativeName:   "Sepolia Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://rpc.sepolia.org",
			"https://ethereum-sepolia-rpc.publicnode.com",
			"https://sepolia.gateway.tenderly.co",
		},
		BlockExplorerURL: "https://sepolia.etherscan.io",
		ShortName:        "sep",
		Slug:             "sepolia",
		Static:           true,
	}
	Polygon = entity.ChainRecord{
		ChainID:      "0x89",
		DisplayName:  "Polygon PoS",
		NativeSymbol: "POL",
		NativeName:   "Polygon Ecosystem Token",
		Decimals:     18,
		RPCURLs: []string{
			"https://polygon-rpc.com",
			"https://polygon-bor-rpc.publicnode.com",
			"https://rpc.ankr.com/polygon",
		},
		BlockExplorerURL: "https://polygonscan.com",
		ShortName:        "pol",
		Slug:             "polygon-pos",
		Static:           true,
	}
	BSC = entity.ChainRecord{
		ChainID:      "0x38",
		DisplayName:  "BNB Smart Chain",
		NativeSymbol: "BNB",
		NativeName:   "BNB",
		Decimals:     18,
		RPCURLs: []string{
			"https://bsc-dataseed.binance.org",
			"https://bsc.publicnode.com",
			"https://1rpc.io/bnb",
		},
		BlockExplorerURL: "https://bscscan.com",
		ShortName:        "bnb",
		Slug:             "bnb-smart-chain",
		Static:           true,
	}
	Arbitrum = entity.ChainRecord{
		ChainID:      "0xa4b1",
		DisplayName:  "Arbitrum One",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://arb1.arbitrum.io/rpc",
			"https://arbitrum.publicnode.com",
			"https://arbitrum.llamarpc.com",
		},
		BlockExplorerURL: "https://arbiscan.io",
		ShortName:        "arb1",
		Slug:             "arbitrum-one",
		Static:           true,
	}
	Optimism = entity.ChainRecord{
		ChainID:      "0xa",
		DisplayName:  "OP Mainnet",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://mainnet.optimism.io",
			"https://optimism.publicnode.com",
			"https://rpc.ankr.com/optimism",
		},
		BlockExplorerURL: "https://optimistic.etherscan.io",
		ShortName:        "oeth",
		Slug:             "op-mainnet",
		Static:           true,
	}
	Base = entity.ChainRecord{
		ChainID:      "0x2105",
		DisplayName:  "Base Mainnet",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://mainnet.base.org",
			"https://base.publicnode.com",
			"https://base.llamarpc.com",
		},
		BlockExplorerURL: "https://basescan.org",
		ShortName:        "base",
		Slug:             "base-mainnet",
		Static:           true,
	}
	Avalanche = entity.ChainRecord{
		ChainID:      "0xa86a",
		DisplayName:  "Avalanche C-Chain",
		NativeSymbol: "AVAX",
		NativeName:   "Avalanche",
		Decimals:     18,
		RPCURLs: []string{
			"https://api.avax.network/ext/bc/C/rpc",
			"https://avalanche-c-chain-rpc.publicnode.com",
			"https://rpc.ankr.com/avalanche",
		},
		BlockExplorerURL: "https://snowtrace.io",
		ShortName:        "avax",
		Slug:             "avalanche-c-chain",
		Static:           true,
	}
	Gnosis = entity.ChainRecord{
		ChainID:      "0x64",
		DisplayName:  "Gnosis Chain",
		NativeSymbol: "xDAI",
		NativeName:   "xDAI",
		Decimals:     18,
		RPCURLs: []string{
			"https://rpc.gnosischain.com",
			"https://gnosis.publicnode.com",
		},
		BlockExplorerURL: "https://gnosisscan.io",
		ShortName:        "gno",
		Slug:             "gnosis-chain",
		Static:           true,
	}
	Fantom = entity.ChainRecord{
		ChainID:      "0xfa",
		DisplayName:  "Fantom Opera",
		NativeSymbol: "FTM",
		NativeName:   "Fantom",
		Decimals:     18,
		RPCURLs: []string{
			"https://rpc.ftm.tools",
			"https://fantom.publicnode.com",
		},
		BlockExplorerURL: "https://ftmscan.com",
		ShortName:        "ftm",
		Slug:             "fantom-opera",
		Static:           true,
	}
	Linea = entity.ChainRecord{
		ChainID:      "0xe708",
		DisplayName:  "Linea Mainnet",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://rpc.linea.build",
		},
		BlockExplorerURL: "https://lineascan.build",
		ShortName:        "linea",
		Slug:             "linea-mainnet",
		Static:           true,
	}
	Scroll = entity.ChainRecord{
		ChainID:      "0x82750",
		DisplayName:  "Scroll",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://rpc.scroll.io",
		},
		BlockExplorerURL: "https://scrollscan.com",
		ShortName:        "scr",
		Slug:             "scroll",
		Static:           true,
	}
	ZkSync = entity.ChainRecord{
		ChainID:      "0x144",
		DisplayName:  "zkSync Era Mainnet",
		NativeSymbol: "ETH",
		NativeName:   "Ether",
		Decimals:     18,
		RPCURLs: []string{
			"https://mainnet.era.zksync.io",
		},
		BlockExplorerURL: "https://explorer.zksync.io",
		ShortName:        "zksync",
		Slug:             "zksync-era-mainnet",
		Static:           true,
	}
)

// Aliases maps common shorthand identifiers to canonical hex chain ids. This
// is an explicit table rather than substring matching, so lookups stay
// reviewable.
var Aliases = map[string]string{
	"eth":       "0x1",
	"ethereum":  "0x1",
	"mainnet":   "0x1",
	"homestead": "0x1",
	"sepolia":   "0xaa36a7",
	"polygon":   "0x89",
	"matic":     "0x89",
	"pol":       "0x89",
	"bsc":       "0x38",
	"bnb":       "0x38",
	"binance":   "0x38",
	"arbitrum":  "0xa4b1",
	"arb":       "0xa4b1",
	"arbi":      "0xa4b1",
	"optimism":  "0xa",
	"op":        "0xa",
	"base":      "0x2105",
	"avalanche": "0xa86a",
	"avax":      "0xa86a",
	"gnosis":    "0x64",
	"xdai":      "0x64",
	"fantom":    "0xfa",
	"ftm":       "0xfa",
	"linea":     "0xe708",
	"scroll":    "0x82750",
	"zksync":    "0x144",
}

// StaticRecords returns a fresh copy of the embedded seed table, endpoints
// already sanitized. Copies keep callers from mutating the package vars.
func StaticRecords() []entity.ChainRecord {
	seed := []entity.ChainRecord{
		Ethereum, Sepolia, Polygon, BSC, Arbitrum, Optimism,
		Base, Avalanche, Gnosis, Fantom, Linea, Scroll, ZkSync,
	}
	out := make([]entity.ChainRecord, len(seed))
	for i, rec := range seed {
		rec.RPCURLs = SanitizeEndpoints(rec.RPCURLs)
		out[i] = rec
	}
	return out
}

// IsUsableEndpoint reports whether a URL is acceptable as an RPC candidate:
// http/https scheme, no unresolved template placeholders, no embedded API-key
// markers, no /demo paths.
func IsUsableEndpoint(url string) bool {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	if strings.Contains(url, "${") {
		return false
	}
	lower := strings.ToLower(url)
	if strings.Contains(lower, "api_key") || strings.Contains(lower, "apikey") || strings.Contains(lower, "api-key") {
		return false
	}
	if strings.Contains(lower, "/demo") {
		return false
	}
	return true
}

// SanitizeEndpoints filters urls down to usable RPC candidates, keeping order.
func SanitizeEndpoints(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if !IsUsableEndpoint(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Slugify lowercases a display name and collapses non-alphanumeric runs into
// single dashes, e.g. "Polygon PoS" -> "polygon-pos".
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
