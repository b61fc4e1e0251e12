package backup

import (
	"encoding/json"
	"fmt"
	"strconv"

	"ghostledger/internal/core"
	"ghostledger/internal/locale"
)

// migration upgrades a raw payload from version from to from+1 in place.
type migration struct {
	from  int
	name  string
	apply func(obj map[string]any) error
}

// migrations is ordered by from; index i upgrades version i.
var migrations = []migration{
	{0, "canonical keys and tags", canonicalizeKeys},
	{1, "backfill goals, limits and security config", backfillCollections},
	{2, "hash clear PIN", hashClearPIN},
}

func migrate(obj map[string]any, version int) error {
	for _, m := range migrations {
		if m.from < version {
			continue
		}
		if err := m.apply(obj); err != nil {
			return fmt.Errorf("migrate v%d (%s): %w", m.from, m.name, err)
		}
	}
	obj["schemaVersion"] = SchemaVersion
	return nil
}

var (
	containerKeys = map[string]string{
		"despesas":              "expenses",
		"ganhos":                "income",
		"metas":                 "goals",
		"limites":               "limits",
		"configuracaoSeguranca": "securityConfig",
	}
	recordKeys = map[string]string{
		"valor":       "amount",
		"descricao":   "description",
		"categoria":   "category",
		"data":        "occurredOn",
		"date":        "occurredOn",
		"criadoEm":    "createdAt",
		"observacao":  "note",
		"comprovante": "receiptImage",
	}
	goalKeys = map[string]string{
		"titulo":     "title",
		"valorAlvo":  "targetAmount",
		"valorAtual": "currentAmount",
		"dataInicio": "startDate",
		"dataFim":    "endDate",
		"ativa":      "active",
		"criadoEm":   "createdAt",
	}
	limitKeys = map[string]string{
		"categoria":   "category",
		"valorLimite": "limitAmount",
		"ativo":       "active",
		"mes":         "month",
		"ano":         "year",
		"criadoEm":    "createdAt",
	}
	securityKeys = map[string]string{
		"pinAtivado": "pinEnabled",
	}
	// Derived or export-only fields of older payloads; totals are always
	// recomputed.
	droppedKeys = []string{
		"capitalBruto", "totalDespesas", "capitalLiquido", "saldoFinal",
		"totalBalance", "totalIncome", "totalExpenses",
		"dataExportacao", "versao",
	}
)

// canonicalizeKeys translates payloads written by the Portuguese and English
// builds before schemaVersion existed.
func canonicalizeKeys(obj map[string]any) error {
	renameKeys(obj, containerKeys)
	for _, k := range droppedKeys {
		delete(obj, k)
	}

	for _, r := range objects(obj["expenses"]) {
		renameKeys(r, recordKeys)
		stringifyID(r)
		if tag, ok := r["category"].(string); ok {
			r["category"] = locale.CanonicalExpenseTag(tag)
		}
	}
	for _, r := range objects(obj["income"]) {
		renameKeys(r, recordKeys)
		stringifyID(r)
		// The English build stored income without a category.
		tag, ok := r["category"].(string)
		if !ok || tag == "" {
			tag = string(core.IncomeOther)
		}
		r["category"] = locale.CanonicalIncomeTag(tag)
	}
	for _, g := range objects(obj["goals"]) {
		renameKeys(g, goalKeys)
		stringifyID(g)
	}
	for _, l := range objects(obj["limits"]) {
		renameKeys(l, limitKeys)
		stringifyID(l)
		if tag, ok := l["category"].(string); ok {
			l["category"] = locale.CanonicalExpenseTag(tag)
		}
	}
	if sec, ok := obj["securityConfig"].(map[string]any); ok {
		renameKeys(sec, securityKeys)
	}
	return nil
}

func backfillCollections(obj map[string]any) error {
	for _, k := range []string{"goals", "limits"} {
		if _, ok := obj[k].([]any); !ok {
			obj[k] = []any{}
		}
	}
	if _, ok := obj["securityConfig"].(map[string]any); !ok {
		obj["securityConfig"] = map[string]any{"pinEnabled": false}
	}
	return nil
}

func hashClearPIN(obj map[string]any) error {
	sec, ok := obj["securityConfig"].(map[string]any)
	if !ok {
		return nil
	}
	pin, _ := sec["pin"].(string)
	delete(sec, "pin")
	if pin == "" {
		return nil
	}
	hash, err := core.HashPIN(pin)
	if err != nil {
		return err
	}
	sec["pinHash"] = hash
	return nil
}

func renameKeys(obj map[string]any, names map[string]string) {
	for from, to := range names {
		v, ok := obj[from]
		if !ok {
			continue
		}
		delete(obj, from)
		if _, taken := obj[to]; !taken {
			obj[to] = v
		}
	}
}

// objects returns the JSON objects of a raw array, skipping anything else.
func objects(v any) []map[string]any {
	arr, _ := v.([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// stringifyID turns numeric ids into strings; ids are opaque strings.
func stringifyID(obj map[string]any) {
	switch n := obj["id"].(type) {
	case json.Number:
		obj["id"] = n.String()
	case float64:
		obj["id"] = strconv.FormatFloat(n, 'f', -1, 64)
	}
}
