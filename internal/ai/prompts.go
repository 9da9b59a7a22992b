package ai

import "fmt"

// PromptStyle selects one of the two independently phrased cover prompts.
// Keeping the phrasings different makes the two providers disagree in
// different ways, which is what the reconciliation step feeds on.
type PromptStyle int

const (
	PromptDirect PromptStyle = iota
	PromptChecklist
)

func coverPrompt(style PromptStyle, bankID string) string {
	switch style {
	case PromptChecklist:
		return fmt.Sprintf(
			"Revisa la carátula de este estado de cuenta bancario mexicano (banco: %s).\n\n"+
				"Completa la siguiente lista leyendo el resumen del periodo. Si un dato no\n"+
				"aparece, omítelo por completo; nunca lo inventes ni lo pongas en cero.\n"+
				"- rfc: RFC del titular\n"+
				"- cliente: nombre o razón social del titular\n"+
				"- periodo: periodo del estado de cuenta tal como está impreso\n"+
				"- depositos: total de depósitos o abonos del periodo\n"+
				"- cargos: total de retiros o cargos del periodo\n"+
				"- comisiones: total de comisiones cobradas\n"+
				"- saldo_promedio: saldo promedio del periodo\n\n"+
				"Responde ÚNICAMENTE con JSON válido, sin Markdown ni texto adicional:\n"+
				"{\"campos\": {\"rfc\": \"...\", \"cliente\": \"...\", \"periodo\": \"...\"},\n"+
				" \"montos\": {\"depositos\": \"...\", \"cargos\": \"...\", \"comisiones\": \"...\", \"saldo_promedio\": \"...\"}}\n"+
				"Los montos van como cadenas, con el formato impreso (por ejemplo \"1,234.56\").\n"+
				"La respuesta debe empezar con \"{\" y terminar con \"}\".\n",
			bankID)
	default:
		return fmt.Sprintf(
			"Eres un extractor de datos de estados de cuenta bancarios mexicanos.\n\n"+
				"Banco: %s. Extrae de la carátula los campos de texto rfc, cliente y\n"+
				"periodo, y los montos depositos, cargos, comisiones y saldo_promedio.\n"+
				"Omite cualquier campo que no esté impreso en el documento.\n\n"+
				"Devuelve SOLO JSON estricto (sin comentarios, sin comas finales,\n"+
				"sin texto extra) con esta forma:\n"+
				"{\"campos\": {<campo>: <texto>}, \"montos\": {<campo>: <monto como cadena>}}\n"+
				"No envuelvas la respuesta en ```json ni en ningún Markdown.\n"+
				"La salida debe empezar con \"{\" y terminar con \"}\".\n",
			bankID)
	}
}

func agentPrompt(bankID, text string) string {
	return fmt.Sprintf(
		"Eres un extractor de movimientos de estados de cuenta bancarios mexicanos.\n\n"+
			"Banco: %s. Extrae TODOS los movimientos del fragmento de texto de abajo.\n"+
			"Cada movimiento tiene fecha, descripción y monto. Copia la fecha y el\n"+
			"monto tal como están impresos. No calcules saldos ni totales.\n\n"+
			"Devuelve SOLO un arreglo JSON estricto de objetos con los campos\n"+
			"\"fecha\", \"descripcion\" y \"monto\" (los tres como cadenas).\n"+
			"No uses Markdown. La salida debe empezar con \"[\" y terminar con \"]\".\n"+
			"Si el fragmento no contiene movimientos, devuelve [].\n\n"+
			"--- fragmento ---\n%s\n",
		bankID, text)
}
