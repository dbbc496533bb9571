package llm

import (
	"encoding/json"
	"fmt"
)

const GenerateSystem = `You are a chemical process engineer who turns process descriptions into
structured process flow data.

If the description is detailed, use the information it gives directly. If it only names a
process type (for example "generate a distillation process"), work out a typical industrial
configuration for it: process steps, major equipment, operating conditions, utilities and
the feed source. Return only the JSON, never the reasoning.

Return a single JSON object of this form:
{
  "equipment": [
    {"type": "pump", "id": "P-101", "spec": "Feed Pump", "temperature": 30, "pressure": 5},
    {"type": "heat_exchanger", "id": "E-201", "spec": "Feed Heater"},
    {"type": "distillation_column", "id": "C-301", "spec": "Main Column"}
  ],
  "streams": [
    {"id": "S1", "from": "T-101", "to": "P-101", "flow": 100, "comp": "Water"},
    {"id": "S2", "from": "P-101", "to": "E-201", "flow": 100, "comp": "Water"},
    {"id": "S3", "from": "E-201", "to": "C-301", "flow": 100, "comp": "Water"},
    {"id": "S4", "from": "C-301", "to": "P-101", "flow": 15, "comp": "Recycle Stream"}
  ]
}

Guidelines:
1. Order equipment in process order: feed, pre-treatment, main process, separation, product.
2. Keep recycle streams to what is needed, typically 5-25% of the main flow.
3. Use sequential tags: P-xxx pumps, E-xxx heat exchangers, C-xxx columns, T-xxx tanks,
   R-xxx reactors, K-xxx compressors, S-xxx separators.
4. Use at most 8-10 main equipment items.
5. Give temperature (°C) and pressure (bar) for equipment and streams, using values from the
   description when present and typical operating conditions otherwise.
6. Every stream endpoint must be an equipment id.`

const RepairSystem = `You returned JSON that failed schema validation.
Repair it so it has exactly the keys {"equipment": [...], "streams": [...]}.
- Every equipment item needs string "id" and "type".
- Every stream needs string "id", "from", "to" and a numeric "flow".
- Keep all facts you already produced; fix only structure and types.
- Return ONLY valid JSON.`

const AnalystSystem = `You are an expert chemical process engineer with detailed knowledge of Process
Flow Diagrams (PFDs). Answer questions about them accurately. When relevant, consider:
1. Equipment identification and function
2. Process flow direction
3. Stream connections and relationships
4. Equipment specifications and parameters
5. Process safety considerations
6. Energy efficiency and optimization
7. Common industrial practices`

func GeneratePrompt(description string) string {
	return "Process Description: " + description
}

func RepairPrompt(doc map[string]any, validationErr error) string {
	b, _ := json.Marshal(doc)
	return fmt.Sprintf("Document:\n%s\n\nValidation errors:\n%v", b, validationErr)
}

func TextQuestionPrompt(description, question string) string {
	return fmt.Sprintf("PFD Description:\n%s\n\nQuestion: %s\n\nPlease provide a detailed, accurate, and helpful answer.",
		description, question)
}

func ImageQuestionPrompt(question string) string {
	return "Analyze this PFD image and answer the following question: " + question
}

func VerificationQuestion(description string) string {
	return fmt.Sprintf("Verify if this PFD matches the following process description: %s. "+
		"Identify any discrepancies, missing equipment, or incorrect connections.", description)
}
