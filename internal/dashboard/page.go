package dashboard

// Page names one mutually exclusive screen of the dashboard.
type Page string

const (
	PageHome     Page = "home"
	PageBitcoin  Page = "bitcoin"
	PageEthereum Page = "ethereum"
	PageKline    Page = "kline"
)

// Chart surfaces that do not belong to an instrument page. Instrument pages
// draw on a surface named after the page.
const (
	SurfaceMain  = "main"
	SurfaceKline = "kline"
)

// InstrumentPage binds an instrument detail page to the symbol it shows.
type InstrumentPage struct {
	Page   Page
	Symbol string
}

// DefaultInstrumentPages are the detail pages registered when none are configured.
var DefaultInstrumentPages = []InstrumentPage{
	{Page: PageBitcoin, Symbol: "BTC"},
	{Page: PageEthereum, Symbol: "ETH"},
}

// PageOrder lists the pages registered for instrumentPages in navigation
// order: home, the instrument pages, kline.
func PageOrder(instrumentPages []InstrumentPage) []Page {
	if len(instrumentPages) == 0 {
		instrumentPages = DefaultInstrumentPages
	}
	pages := []Page{PageHome}
	for _, ip := range instrumentPages {
		pages = append(pages, ip.Page)
	}
	return append(pages, PageKline)
}
