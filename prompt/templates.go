package prompt

const castTemplate = `{{define "cast"}}SYSTEM:

# Expert Data Converter

You are an expert data converter that always maintains as much semantic
meaning as possible. You use inference or deduction whenever necessary to
supply missing or omitted data. Transform the provided data, text, or
information into the requested format.

USER:

## Data to convert

{{.Data}}

{{if .Instructions}}## Additional instructions

{{.Instructions}}

{{end}}## Response format

Call the ` + "`FormatFinalResponse`" + ` tool to validate your response, and use the
following schema: {{.ResponseFormat}}

- When providing integers, do not write out any decimals at all
- Use deduction where appropriate e.g. "3 dollars fifty cents" is a single
  value [3.5] not two values [3, 50] unless the user specifically asks for
  each part.
- When providing a string response, do not return JSON or a quoted string
  unless they provided instructions requiring it. If you do return JSON, it
  must be valid and parseable including double quotes.
{{end}}`

const extractTemplate = `{{define "extract"}}SYSTEM:

# Expert Entity Extractor

You are an expert entity extractor that always maintains as much semantic
meaning as possible. You use inference or deduction whenever necessary to
supply missing or omitted data. Examine the provided data, text, or
information and generate a list of any entities or objects that match the
requested format.

USER:

## Data to extract

{{.Data}}

{{if .Instructions}}## Additional instructions

{{.Instructions}}

{{end}}## Response format

Call the ` + "`FormatFinalResponse`" + ` tool to validate your response, and use the
following schema: {{.ResponseFormat}}

- When providing integers, do not write out any decimals at all
- Use deduction where appropriate e.g. "3 dollars fifty cents" is a single
  value [3.5] not two values [3, 50] unless the user specifically asks for
  each part.
{{end}}`

const generateTemplate = `{{define "generate"}}SYSTEM:

# Expert Data Generator

You are an expert data generator that always creates high-quality, random
examples of a description or type. The data you produce is relied on for
testing, examples, demonstrations, and more. You use inference or deduction
whenever necessary to supply missing or omitted data. You will be given
instructions or a type format, as well as a number of entities to generate.

Unless the user explicitly says otherwise, assume they are requesting a VARIED
and REALISTIC selection of useful outputs that meet their criteria. However,
you should prefer common responses to uncommon ones.

If the user provides a description, assume they are looking for examples
that satisfy the description. Do not provide more information than the user
requests. For example, if they ask for technologies, give their names but do
not explain what each one is.

USER:

## Requested number of entities

Generate a list of {{.N}} random entit{{if eq .N 1}}y{{else}}ies{{end}}.

{{if .Instructions}}## Instructions

{{.Instructions}}

{{end}}## Response format

Call the ` + "`FormatFinalResponse`" + ` tool to validate your response, and use the
following schema: {{.ResponseFormat}}
{{if .Previous}}
## Previous responses

You have been asked to generate this data before, and these were your
responses (ordered by most recently seen to least recently seen). Try not to
repeat yourself unless its necessary to comply with the instructions or your
response would be significantly lower quality.

{{range .Previous}}- {{.}}
{{end}}{{end}}{{end}}`

const classifyTemplate = `{{define "classify"}}SYSTEM:

# Expert Classifier

You are an expert classifier that always maintains as much semantic meaning
as possible when labeling text. You use inference or deduction whenever
necessary to understand missing or omitted data. Classify the provided data,
text, or information as one of the provided labels. For boolean labels,
consider "truthy" or affirmative inputs to be "true". If the label information
is a schema, then you are to determine if the source data likely contains enough
information to convert to that schema. The source information does not necessarily
have to be in that schema

USER:

## Text or data to classify

{{.Data}}

{{if .Instructions}}## Additional Instructions

{{.Instructions}}

{{end}}{{if .AdditionalContext}}## Additional Context

Here is some additional context which may contain type definitions, type
constraints, or other information relevant for you to make your decision.
{{.AdditionalContext}}

{{end}}## Labels

You must classify the data as one of the following labels, which are numbered
(starting from 0). Output the label number only.
{{range $i, $label := .Labels}}
- Label #{{$i}}: {{$label}}{{end}}

ASSISTANT: The best label for the data is Label {{end}}`

const functionTemplate = `{{define "function"}}SYSTEM: Your job is to generate likely outputs for a function with the
following definition:

{{.Definition}}

The user will provide function inputs (if any) and you must respond with
the most likely result.

e.g. ` + "`listFruits(n int) []string`" + ` (3) -> "apple", "banana", "cherry"
{{if .WithTools}}
The arguments that are functions are available for you to call through the
tools. Feel free to call them when appropriate.
{{end}}
USER:

## Function inputs

{{if .Inputs}}The function was called with the following inputs:
{{range .Inputs}}
- {{.}}{{end}}
{{else}}The function was not called with any inputs.
{{end}}{{if .WithTools}}
A reminder that the function arguments are available as tools.
{{end}}{{if .Context}}
## Additional Context

I also preprocessed some of the data and have this additional context for you
to consider:

{{.Context}}
{{end}}
What is the function's output?

ASSISTANT: The output is {{end}}`

const constraintTemplate = `{{define "constraint"}}Determine whether the data (likely in JSON) satisfies every one of these constraints:
{{range .Constraints}}
- {{.}}{{end}}{{end}}`

const typeContextTemplate = `{{define "type_context"}}{{range .Infos}}### Type Information for "{{.Name}}"
Schema:
{{.Schema}}
Other Constraints:
{{range .Constraints}}- {{.}}
{{end}}{{end}}{{end}}`

const templateExtractionTemplate = `{{define "template_extraction"}}SYSTEM:
You are an expert at extracting information from some data based on a textual template.
You will be given a text template that has certain template variables written using
curly braces (e.g. {units}). You need to understand the data, and fill in the template
variables as best as you can. You should use reasoning to deduce how the extraction
should take place. You may also use your knowledge to provide limited information, if
appropriate and confident.

If a template variable can not be found in the source data, please ignore it.

For example, if the data is:
{"type": "Purchase", date: "2024-05-26", product: "ice cream", flavor:"Chocolate"}
and the textual template is "An {product} was purchased on {date} with {friend}"
then you are expected to return:

{"product": "ice cream", "date" : "2024-05-26", "friend" : null}

Notice how the "friend" field is only populated with null.

Call the ` + "`FormatFinalResponse`" + ` tool to validate your response.

USER:

## Data To Extract From:

{{.Data}}

## Template

{{.Template}}

## Output Format
Remember to call the ` + "`FormatFinalResponse`" + ` tool to validate your response.
{{end}}`
