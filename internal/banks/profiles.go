package banks

// profileSpec is the raw, uncompiled form of a bank profile. All patterns are
// written against lowercased statement text.
type profileSpec struct {
	id             string
	aliases        []string
	fields         map[FieldID][]string
	txVariants     map[string]string
	coverAtEnd     bool
	accountHeading string
}

// Shared pattern fragments. Monetary values keep the thousands separators;
// normalization happens in the extract package.
const (
	amt  = `\$?\s*([\d,]+\.\d{2})`
	rfc  = `([a-zñ&]{3,4}\s?-?\d{6}\s?-?[a-z0-9]{3})`
	date = `\d{1,2}[-/](?:[a-z]{3}|\d{2})[-/]?\d{0,4}`
)

// builtinProfiles is the static per-bank table. Ordering matters twice: the
// alias registration order is the detector tie-break, and each field's pattern
// list is tried as one alternation with the first match winning.
func builtinProfiles() []profileSpec {
	return []profileSpec{
		{
			id:      "banbajío",
			aliases: []string{"banco del bajío", "banco del bajio", "banbajío", "banbajio"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{1,2}\s+de\s+[a-z]+\s+al\s+\d{1,2}\s+de\s+[a-z]+\s+de\s+\d{4})`,
					`per[ií]odo:?\s*((?:del\s+)?\d{2}/\d{2}/\d{4}\s*(?:al|-)\s*\d{2}/\d{2}/\d{4})`,
				},
				FieldDepositos:     {`(?:\+\s*)?dep[oó]sitos\s*(?:\(\+\))?:?\s*` + amt},
				FieldCargos:        {`(?:-\s*)?(?:retiros|cargos)\s*(?:\(-\))?:?\s*` + amt},
				FieldComisiones:    {`comisiones\s*(?:cobradas|del\s+per[ií]odo)?:?\s*` + amt, `total\s+comisiones:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio\s*(?:mensual)?:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(` + date + `)\s+(.{5,80}?)\s+` + amt,
			},
		},
		{
			id:      "bbva",
			aliases: []string{"bbva bancomer", "bbva méxico", "bbva mexico", "bbva", "bancomer"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`(?:nombre|raz[oó]n social):?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}/\d{2}/\d{4}\s+al\s+\d{2}/\d{2}/\d{4})`,
					`(del\s+\d{1,2}\s+de\s+[a-z]+\s+al\s+\d{1,2}\s+de\s+[a-z]+\s+de\s+\d{4})`,
				},
				FieldDepositos:     {`dep[oó]sitos\s*/?\s*abonos\s*(?:\(\+\))?:?\s*` + amt, `total\s+abonos:?\s*` + amt},
				FieldCargos:        {`retiros\s*/?\s*cargos\s*(?:\(-\))?:?\s*` + amt, `total\s+cargos:?\s*` + amt},
				FieldComisiones:    {`comisiones\s+cobradas:?\s*` + amt, `comisi[oó]n\s+por\s+manejo\s+de\s+cuenta:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"oper":  `(\d{2}/[a-z]{3})\s+\d{2}/[a-z]{3}\s+(.{5,80}?)\s+` + amt,
				"plain": `(\d{2}/[a-z]{3})\s+(.{5,80}?)\s+` + amt,
			},
		},
		{
			id:      "santander",
			aliases: []string{"banco santander", "santander"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}-[a-z]{3}-\d{4}\s+al\s+\d{2}-[a-z]{3}-\d{4})`,
					`per[ií]odo:?\s*(\d{2}/\d{2}/\d{4}\s+al?\s+\d{2}/\d{2}/\d{4})`,
				},
				FieldDepositos:     {`dep[oó]sitos:?\s*` + amt, `total\s+de\s+abonos:?\s*` + amt},
				FieldCargos:        {`(?:retiros|cargos):?\s*` + amt},
				FieldComisiones:    {`comisiones\s+(?:efectivamente\s+)?cobradas:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}-[a-z]{3}-\d{4})\s+(.{5,80}?)\s+` + amt,
			},
			// Consolidated business statements repeat this heading at the
			// start of every sub-account.
			accountHeading: `informaci[oó]n\s+de\s+la\s+cuenta|detalle\s+de\s+la\s+cuenta\s+\d+`,
		},
		{
			id:      "banorte",
			aliases: []string{"banco mercantil del norte", "banorte"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`nombre:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}/[a-z]{3}/\d{4}\s+al\s+\d{2}/[a-z]{3}/\d{4})`,
				},
				FieldDepositos:     {`total\s+de\s+dep[oó]sitos:?\s*` + amt, `dep[oó]sitos\s*\(\+\)\s*` + amt},
				FieldCargos:        {`total\s+de\s+retiros:?\s*` + amt, `retiros\s*\(-\)\s*` + amt},
				FieldComisiones:    {`comisiones\s+cobradas:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}-[a-z]{3}-\d{2})\s+(.{5,80}?)\s+` + amt,
			},
			// Banorte prints the summary block on the closing pages.
			coverAtEnd: true,
		},
		{
			id:      "banamex",
			aliases: []string{"banco nacional de méxico", "banco nacional de mexico", "citibanamex", "banamex"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`resumen\s+del:?\s*(\d{1,2}\s+de\s+[a-z]+\s+al\s+\d{1,2}\s+de\s+[a-z]+\s+de\s+\d{4})`,
					`per[ií]odo:?\s*(del\s+\d{2}/\d{2}/\d{4}\s+al\s+\d{2}/\d{2}/\d{4})`,
				},
				FieldDepositos:     {`dep[oó]sitos:?\s*` + amt},
				FieldCargos:        {`retiros:?\s*` + amt},
				FieldComisiones:    {`comisiones\s+cobradas:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}\s+[a-z]{3})\s+(.{5,80}?)\s+` + amt,
			},
			accountHeading: `detalle\s+de\s+operaciones\s+cuenta\s+de\s+cheques|contrato\s+\d{10,}`,
		},
		{
			id:      "hsbc",
			aliases: []string{"hsbc méxico", "hsbc mexico", "hsbc"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}\s+[a-z]{3}\s+\d{4}\s+al\s+\d{2}\s+[a-z]{3}\s+\d{4})`,
				},
				FieldDepositos:     {`(?:total\s+)?dep[oó]sitos:?\s*` + amt},
				FieldCargos:        {`(?:total\s+)?retiros:?\s*` + amt},
				FieldComisiones:    {`comisiones:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}\s+[a-z]{3})\s+(.{5,80}?)\s+` + amt,
			},
		},
		{
			id:      "scotiabank",
			aliases: []string{"scotiabank inverlat", "scotiabank", "scotia"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}/[a-z]{3}/\d{4}\s+al\s+\d{2}/[a-z]{3}/\d{4})`,
				},
				FieldDepositos:     {`\+\s*dep[oó]sitos:?\s*` + amt, `dep[oó]sitos:?\s*` + amt},
				FieldCargos:        {`-\s*retiros:?\s*` + amt, `retiros:?\s*` + amt},
				FieldComisiones:    {`comisiones\s+cobradas:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}\s+[a-z]{3})\s+(.{5,80}?)\s+` + amt,
			},
		},
		{
			id:      "banregio",
			aliases: []string{"banco regional", "banregio"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(\d{2}/\d{2}/\d{4}\s*-\s*\d{2}/\d{2}/\d{4})`,
				},
				FieldDepositos:     {`dep[oó]sitos:?\s*` + amt},
				FieldCargos:        {`retiros:?\s*` + amt},
				FieldComisiones:    {`comisiones:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}/\d{2}/\d{4})\s+(.{5,80}?)\s+` + amt,
			},
			coverAtEnd: true,
		},
		{
			id:      "afirme",
			aliases: []string{"banca afirme", "afirme"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}/\d{2}/\d{4}\s+al\s+\d{2}/\d{2}/\d{4})`,
				},
				FieldDepositos:     {`dep[oó]sitos:?\s*` + amt},
				FieldCargos:        {`retiros:?\s*` + amt},
				FieldComisiones:    {`comisiones:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}/\d{2}/\d{4})\s+(.{5,80}?)\s+` + amt,
			},
		},
		{
			id:      "inbursa",
			aliases: []string{"banco inbursa", "inbursa"},
			fields: map[FieldID][]string{
				FieldRFC:     {`r\.?f\.?c\.?:?\s*` + rfc},
				FieldCliente: {`cliente:?\s*([a-zñ&\. ]{5,60})`},
				FieldPeriodo: {
					`per[ií]odo:?\s*(del\s+\d{2}-[a-z]{3}-\d{4}\s+al\s+\d{2}-[a-z]{3}-\d{4})`,
				},
				FieldDepositos:     {`abonos:?\s*` + amt, `dep[oó]sitos:?\s*` + amt},
				FieldCargos:        {`cargos:?\s*` + amt},
				FieldComisiones:    {`comisiones:?\s*` + amt},
				FieldSaldoPromedio: {`saldo\s+promedio:?\s*` + amt},
			},
			txVariants: map[string]string{
				"default": `(\d{2}-[a-z]{3}-\d{4})\s+(.{5,80}?)\s+` + amt,
			},
		},
	}
}
