// Package report renders the daily market review as a PDF document.
package report

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"atb/backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// ticker moves at or beyond this magnitude are highlighted as dramatic
const dramaticShiftPercent = 2.0

// MarketReview bundles everything the report renders. Trades, when
// provided, adds a per-bot trade appendix.
type MarketReview struct {
	GeneratedAt time.Time
	Tickers     map[string]model.TickerSnapshot
	Bots        map[string]model.Bot
	Trades      map[string][]model.TradeRecord
}

// Generate renders the market review and returns the PDF bytes
func Generate(review MarketReview) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Market Review", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Daily Market Review", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, review.GeneratedAt.Format("Monday, 2 January 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeMarketSummary(pdf, review.Tickers)
	writeDramaticShifts(pdf, review.Tickers)
	writeBotPerformance(pdf, review.Bots)
	if len(review.Trades) > 0 {
		writeTradeAppendix(pdf, review.Bots, review.Trades)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, hd := range headers {
		pdf.CellFormat(widths[i], 7, hd, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func sortedSymbols(tickers map[string]model.TickerSnapshot) []string {
	symbols := make([]string, 0, len(tickers))
	for sym := range tickers {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

func writeMarketSummary(pdf *fpdf.Fpdf, tickers map[string]model.TickerSnapshot) {
	sectionTitle(pdf, "Market Summary")

	widths := []float64{30, 40, 40, 40}
	tableHeader(pdf, widths, []string{"Symbol", "Price", "Change", "Change %"})

	for _, sym := range sortedSymbols(tickers) {
		snap := tickers[sym]
		pdf.CellFormat(widths[0], 6, sym, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%.2f", snap.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%+.2f", snap.Change), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%+.2f%%", snap.ChangePercent), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

func writeDramaticShifts(pdf *fpdf.Fpdf, tickers map[string]model.TickerSnapshot) {
	sectionTitle(pdf, "Dramatic Shifts")

	var movers []model.TickerSnapshot
	for _, snap := range tickers {
		if math.Abs(snap.ChangePercent) >= dramaticShiftPercent {
			movers = append(movers, snap)
		}
	}
	if len(movers) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "No significant moves in this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	sort.Slice(movers, func(i, j int) bool {
		return math.Abs(movers[i].ChangePercent) > math.Abs(movers[j].ChangePercent)
	})

	for _, snap := range movers {
		direction := "up"
		if snap.ChangePercent < 0 {
			direction = "down"
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s moved %s %.2f%% to %.2f",
			snap.Symbol, direction, math.Abs(snap.ChangePercent), snap.Price), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func writeBotPerformance(pdf *fpdf.Fpdf, bots map[string]model.Bot) {
	sectionTitle(pdf, "Bot Performance")

	ids := make([]string, 0, len(bots))
	for id := range bots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	widths := []float64{50, 25, 25, 25, 35}
	tableHeader(pdf, widths, []string{"Bot", "Asset", "Status", "Trades", "Total P&L"})

	for _, id := range ids {
		bot := bots[id]
		status := "idle"
		if bot.Active {
			status = "active"
		}
		pdf.CellFormat(widths[0], 6, bot.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, bot.Asset, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", bot.Stats.TradesCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%+.2f", bot.Stats.TotalPnL), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

// trade appendix rows are capped per bot to keep the document bounded
const appendixTradeCap = 25

func writeTradeAppendix(pdf *fpdf.Fpdf, bots map[string]model.Bot, trades map[string][]model.TradeRecord) {
	pdf.AddPage()
	sectionTitle(pdf, "Trade Appendix")

	ids := make([]string, 0, len(trades))
	for id := range trades {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	widths := []float64{45, 20, 30, 25}
	for _, id := range ids {
		log := trades[id]
		if len(log) == 0 {
			continue
		}

		name := id
		if bot, ok := bots[id]; ok {
			name = bot.Name
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s (%d trades)", name, len(log)), "", 1, "L", false, 0, "")
		tableHeader(pdf, widths, []string{"Time", "Side", "Price", "Qty"})

		start := 0
		if len(log) > appendixTradeCap {
			start = len(log) - appendixTradeCap
		}
		for _, tr := range log[start:] {
			ts := time.UnixMilli(tr.Timestamp).Format("02 Jan 15:04:05")
			pdf.CellFormat(widths[0], 6, ts, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, string(tr.Side), "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f", tr.Price), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", tr.Quantity), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(3)
	}
}
