package swaggerkit

// doc is maintained by hand alongside the route tables in services/api
const doc = `{
  "openapi": "3.0.3",
  "info": {"title": "taxintake API", "version": "v1"},
  "servers": [{"url": "/api/v1"}],
  "paths": {
    "/estimate": {"post": {"summary": "Reasonable salary and payroll tax estimate", "tags": ["estimate"]}},
    "/intake": {"post": {"summary": "Start an intake session", "tags": ["intake"]}},
    "/intake/{id}": {"get": {"summary": "Session view", "tags": ["intake"]}},
    "/intake/{id}/personal": {"put": {"summary": "Save personal step", "tags": ["intake"]}},
    "/intake/{id}/income": {"put": {"summary": "Save income step", "tags": ["intake"]}},
    "/intake/{id}/expenses": {"put": {"summary": "Save expenses step", "tags": ["intake"]}},
    "/intake/{id}/salary": {"put": {"summary": "Save salary step", "tags": ["intake"]}},
    "/intake/{id}/next": {"post": {"summary": "Advance one step", "tags": ["intake"]}},
    "/intake/{id}/back": {"post": {"summary": "Go back one step", "tags": ["intake"]}},
    "/intake/{id}/estimate": {"get": {"summary": "Estimate over the salary step", "tags": ["intake"]}},
    "/intake/{id}/submit": {"post": {"summary": "Relay the intake and finish", "tags": ["intake"]}},
    "/intake/{id}/summary.pdf": {"get": {"summary": "PDF summary", "tags": ["intake"]}},
    "/meta/health": {"get": {"summary": "Liveness", "tags": ["meta"]}},
    "/meta/ready": {"get": {"summary": "Backend readiness", "tags": ["meta"]}},
    "/meta/version": {"get": {"summary": "Build info", "tags": ["meta"]}},
    "/meta/service": {"get": {"summary": "Service info", "tags": ["meta"]}}
  }
}`
