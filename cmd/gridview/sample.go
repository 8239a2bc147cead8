package main

const sampleConfig = `# gridview config
rows: customers.yaml

sort:
  multi_sort: true
  max_keys: 4
  overflow: evict

# switch a feature off for every column
sorting: true
filtering: true
grouping: true

columns:
  - id: name
    label: Name
  - id: email
    label: Email
  - id: status
    label: Status
    filter: enumerated
    options:
      - {value: active, label: Active}
      - {value: inactive, label: Inactive}
  - id: balance
    label: Balance
    filterable: false
    sort_desc_first: true
  - id: note
    label: Note
    sortable: false

view:
  sorts:
    - {column: name}
`

const sampleRows = `- {name: Acme Corp, email: ops@acme.example, status: active, balance: 1200.5}
- {name: Globex, email: "", status: inactive, balance: 80}
- {name: Initech, email: billing@initech.example, status: active, balance: 310, note: renewal due}
- {name: Umbrella, email: null, status: inactive, balance: 0}
- {name: Acme Labs, email: labs@acme.example, status: active, balance: 45.25}
`
