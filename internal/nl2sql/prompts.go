package nl2sql

import "fmt"

// SQLResultMarker starts a simulated result block; generation stops there so
// the model cannot invent an execution trace after the query.
const SQLResultMarker = "\nSQLResult:"

func renderSQLPrompt(schemaText, question string) string {
	return fmt.Sprintf(
		"Based on the table schema below, generate a SQL query to answer the user's question. Return just the SQL and nothing else:\n\n%s\n\nQuestion: %s\n\nSQL Query:",
		schemaText,
		question,
	)
}

func renderAnswerPrompt(schemaText, question, sqlQuery, sqlResponse string) string {
	return fmt.Sprintf(
		"Based on the table schema below, question, sql query, and sql response, write a natural language response:\n%s\n\nQuestion: %s\nSQL Query: %s\nSQL Response: %s",
		schemaText,
		question,
		sqlQuery,
		sqlResponse,
	)
}
