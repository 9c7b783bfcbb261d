package tools

import "strings"

// GlossaryEntry is one business term of the HR schema.
type GlossaryEntry struct {
	Term       string
	Definition string
}

// Glossary is kept in presentation order.
var Glossary = []GlossaryEntry{
	{"promotion", "A contract whose salary is higher than the employee's previous contract, usually with a new job title. It takes effect on the new contract's start_date"},
	{"active contract", "A contract with is_active = 1; it holds the employee's current terms of employment"},
	{"tenure", "How long an employee has worked for the company, counted from the start_date of their earliest contract"},
	{"department", "An organizational unit of the company, referenced from contracts by department_id"},
	{"salary", "The pay agreed in a contract, stored in the contracts table"},
	{"employee", "A person working for the company; personal details live in the employees table"},
	{"contract", "An employment agreement tying an employee to a department with a job title, salary and dates"},
	{"start_date", "The date a contract takes effect"},
	{"end_date", "The date a contract finishes (NULL while the contract is ongoing)"},
	{"job_title", "The role an employee holds under a given contract"},
}

func glossaryText() string {
	parts := make([]string, len(Glossary))
	for i, e := range Glossary {
		parts[i] = "**" + e.Term + "**: " + e.Definition
	}
	return "# HR Database Glossary\n\n" + strings.Join(parts, "\n\n")
}
