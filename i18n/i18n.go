// Package i18n holds the user-facing strings of the invoice form.
package i18n

import "strings"

// DefaultLang is used when nothing better matches.
const DefaultLang = "en"

var messages = map[string]map[string]string{
	"en": {
		"title":                "Invoice Generator",
		"customer_details":     "Customer Details",
		"customer_name":        "Customer Name",
		"phone":                "Phone Number",
		"email":                "Email",
		"billing_address":      "Billing Address",
		"invoice_date":         "Invoice Date",
		"payment_mode":         "Payment Mode",
		"item_details":         "Item Details",
		"num_items":            "Number of Items",
		"item":                 "Item",
		"price":                "Price",
		"quantity":             "Quantity",
		"update_items":         "Update items",
		"generate":             "Generate Invoice",
		"download":             "Download Invoice",
		"subtotal":             "Subtotal",
		"open_ledger":          "Open ledger",
		"back":                 "New invoice",
		"required":             "Required",
		"not_allowed":          "Not an accepted value",
		"must_not_be_negative": "Must not be negative",
		"ledger_ok":            "Invoice data updated in Google Sheet successfully!",
		"ledger_error":         "Error updating Google Sheet: ",
		"too_large":            "Too large",
		"too_precise":          "At most two decimal places",
		"too_many":             "Too many items",
		"invalid_number":       "Not a number",
		"invalid_date":         "Not a valid date",
		"invalid_json":         "Malformed request body",
		"invalid_form":         "Malformed form",
		"thank_you":            "Thank You",
	},
	"fr": {
		"title":                "Générateur de factures",
		"customer_details":     "Client",
		"customer_name":        "Nom du client",
		"phone":                "Téléphone",
		"email":                "E-mail",
		"billing_address":      "Adresse de facturation",
		"invoice_date":         "Date de facture",
		"payment_mode":         "Mode de paiement",
		"item_details":         "Articles",
		"num_items":            "Nombre d'articles",
		"item":                 "Article",
		"price":                "Prix",
		"quantity":             "Quantité",
		"update_items":         "Mettre à jour",
		"generate":             "Générer la facture",
		"download":             "Télécharger la facture",
		"subtotal":             "Sous-total",
		"open_ledger":          "Ouvrir le registre",
		"back":                 "Nouvelle facture",
		"required":             "Requis",
		"not_allowed":          "Valeur non acceptée",
		"must_not_be_negative": "Ne doit pas être négatif",
		"too_large":            "Trop grand",
		"too_precise":          "Deux décimales au plus",
		"too_many":             "Trop d'articles",
		"invalid_number":       "Nombre invalide",
		"invalid_date":         "Date invalide",
		"thank_you":            "Merci",
	},
}

// T returns the translation of code in lang, falling back to the default
// language and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the first supported language of an Accept-Language
// header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := messages[base]; ok {
			return base
		}
	}
	return DefaultLang
}
