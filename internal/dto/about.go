package dto

// Step is one stage of the ticket lifecycle
type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FAQ is a question with its answer
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AboutResponse is the about page payload
type AboutResponse struct {
	Product    string `json:"product"`
	Headline   string `json:"headline"`
	Summary    string `json:"summary"`
	HowItWorks []Step `json:"howItWorks"`
	FAQ        []FAQ  `json:"faq"`
}

// About returns the static about page content
func About() *AboutResponse {
	return &AboutResponse{
		Product:  "NFTiX",
		Headline: "Over 30% of event tickets are scalped on the secondary market, leading to inflated prices and fraud.",
		Summary: "NFTix introduces a new era of ticketing powered by blockchain. Our NFT-based tickets are secure, " +
			"verifiable, and impossible to duplicate. Say goodbye to scalping and hello to transparent, fair access to events.",
		HowItWorks: []Step{
			{Title: "MINT", Description: "Purchase your NFT ticket directly from the event organizer"},
			{Title: "SCAN", Description: "Present your digital ticket at the venue for quick entry"},
			{Title: "GO", Description: "Enjoy exclusive perks and experiences at the event"},
		},
		FAQ: []FAQ{
			{
				Question: "What are NFT tickets?",
				Answer:   "NFT tickets are blockchain-based digital tickets that provide verifiable proof of ownership and access to events.",
			},
			{
				Question: "How do I purchase an NFT ticket?",
				Answer:   "Simply connect your crypto wallet, browse available events, and mint your ticket directly from our platform.",
			},
			{
				Question: "What wallet do I need?",
				Answer:   "We support popular wallets like MetaMask, WalletConnect, and Coinbase Wallet.",
			},
			{
				Question: "What happens if I lose my ticket?",
				Answer:   "Your NFT ticket is linked to your wallet. As long as you have access to your wallet, your ticket is safe.",
			},
		},
	}
}
