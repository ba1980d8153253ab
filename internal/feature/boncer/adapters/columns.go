package adapters

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type column int

const (
	colTicker column = iota
	colISIN
	colIssuer
	colFaceValue
	colCoupon
	colInitialIndex
	colCapFactor
	colDate
	colSettlement
	colAmount
	colPrincipal
	colInterest
)

// headerAliases maps folded header names (lowercase, no accents, letters and
// digits only) to columns. Spanish and English spellings are both accepted.
var headerAliases = map[string]column{
	"ticker":               colTicker,
	"especie":              colTicker,
	"simbolo":              colTicker,
	"symbol":               colTicker,
	"isin":                 colISIN,
	"emisor":               colIssuer,
	"issuer":               colIssuer,
	"vn":                   colFaceValue,
	"vr":                   colFaceValue,
	"valorresidual":        colFaceValue,
	"valornominal":         colFaceValue,
	"nominal":              colFaceValue,
	"facevalue":            colFaceValue,
	"cupon":                colCoupon,
	"tasacupon":            colCoupon,
	"coupon":               colCoupon,
	"couponrate":           colCoupon,
	"cer":                  colInitialIndex,
	"cerinicial":           colInitialIndex,
	"indiceinicial":        colInitialIndex,
	"initialindex":         colInitialIndex,
	"initialindexvalue":    colInitialIndex,
	"factorcapitalizacion": colCapFactor,
	"capitalizationfactor": colCapFactor,
	"fecha":                colDate,
	"fechapago":            colDate,
	"vencimiento":          colDate,
	"fechavencimiento":     colDate,
	"date":                 colDate,
	"paymentdate":          colDate,
	"maturity":             colDate,
	"maturitydate":         colDate,
	"fechaliquidacion":     colSettlement,
	"liquidacion":          colSettlement,
	"settlement":           colSettlement,
	"settlementdate":       colSettlement,
	"flujo":                colAmount,
	"flujototal":           colAmount,
	"monto":                colAmount,
	"amount":               colAmount,
	"cashflow":             colAmount,
	"amortizacion":         colPrincipal,
	"capital":              colPrincipal,
	"principal":            colPrincipal,
	"interes":              colInterest,
	"renta":                colInterest,
	"interest":             colInterest,
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", "2006/01/02"}

// foldHeader lowercases s, strips accents and drops everything but letters and digits.
// "Fecha de Liquidación" -> "fechadeliquidacion"
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dropWord removes every standalone occurrence of word from s.
func dropWord(s, word string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if !strings.EqualFold(f, word) {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// resolveHeader returns the column index for every recognised header.
// The word "de" is dropped so "Fecha de Pago" and "FechaPago" resolve alike.
func resolveHeader(header []string) map[column]int {
	idx := make(map[column]int, len(header))
	for i, h := range header {
		c, ok := headerAliases[foldHeader(h)]
		if !ok {
			c, ok = headerAliases[foldHeader(dropWord(h, "de"))]
		}
		if !ok {
			continue
		}
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return idx
}

// parseNumber parses es-AR numbers: "." groups thousands and "," is the decimal
// separator, so "1.050" is 1050 and "1.234,56" is 1234.56. A trailing percent
// sign divides by 100. Blank, "-" or unparsable cells are nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if percent {
		d = d.Shift(-2)
	}
	v, _ := d.Float64()
	return &v
}

// parsePercentPoints parses a value already expressed in percent, so "-0,35%"
// and "-0,35" both give -0.35.
func parsePercentPoints(s string) *float64 {
	return parseNumber(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
