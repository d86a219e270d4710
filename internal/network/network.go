// Package network classifies chain identifiers into the families the
// balancer's Status Payload Codec understands, and maps them to the
// manifest names the remote bootstrap mode fetches.
package network

// Network identifies a supported blockchain.
type Network string

const (
	Bitcoin     Network = "bitcoin"
	Litecoin    Network = "litecoin"
	Dogecoin    Network = "dogecoin"
	BitcoinCash Network = "bitcoin-cash"

	Ethereum  Network = "ethereum"
	Polygon   Network = "polygon"
	BSC       Network = "bsc"
	Avalanche Network = "avalanche"
	Fantom    Network = "fantom"
	Arbitrum  Network = "arbitrum"
	Optimism  Network = "optimism"
	Base      Network = "base"
	Celo      Network = "celo"
	Tron      Network = "tron"

	XRP    Network = "xrp"
	Solana Network = "solana"
	Tezos  Network = "tezos"
)

// Family determines which Status Payload Codec applies, and whether a
// network participates in load balancing at all.
type Family string

const (
	FamilyUTXO        Family = "utxo"
	FamilyEVM         Family = "evm"
	FamilyUnsupported Family = "unsupported"
)

var families = map[Network]Family{
	Bitcoin:     FamilyUTXO,
	Litecoin:    FamilyUTXO,
	Dogecoin:    FamilyUTXO,
	BitcoinCash: FamilyUTXO,

	Ethereum:  FamilyEVM,
	Polygon:   FamilyEVM,
	BSC:       FamilyEVM,
	Avalanche: FamilyEVM,
	Fantom:    FamilyEVM,
	Arbitrum:  FamilyEVM,
	Optimism:  FamilyEVM,
	Base:      FamilyEVM,
	Celo:      FamilyEVM,
	Tron:      FamilyEVM, // shares the eth_blockNumber codec per spec §4.2

	XRP:    FamilyUnsupported,
	Solana: FamilyUnsupported,
	Tezos:  FamilyUnsupported,
}

// FamilyOf returns the Family for n. Unknown networks are FamilyUnsupported.
func FamilyOf(n Network) Family {
	if f, ok := families[n]; ok {
		return f
	}
	return FamilyUnsupported
}

// manifestNames is the static {mapped-network} slug table. Its only entry
// maps BitcoinCash to "bitcoin-cash", the same string as its identifier, so
// every network currently resolves to its own identifier. Anything absent
// falls back to the identifier, per spec.md §4.1 ("falls back to the
// network identifier itself").
var manifestNames = map[Network]string{
	BitcoinCash: "bitcoin-cash",
}

// ManifestName returns the {mapped-network} slug used to build the two
// remote manifest URLs for n.
func ManifestName(n Network) string {
	if name, ok := manifestNames[n]; ok {
		return name
	}
	return string(n)
}
