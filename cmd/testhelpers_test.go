package main

const sampleRFP = `{
  "meta": {"bid_name": "Initech Freight 2026", "customer": "Initech", "valid_from": "2026-01-01",
           "valid_to": "2026-12-31", "currency": "USD"},
  "lanes": [
    {"mode": "OCEAN", "origin": {"port": "CNSHA"}, "destination": {"port": "USLAX"},
     "equipment": "40HC", "demand": {"shipments_per_year": 12}},
    {"mode": "AIR", "origin": {"airport": "PVG"}, "destination": {"airport": "ORD"},
     "demand": {"shipments_per_year": 4, "avg_weight_kg": 10}}
  ],
  "rates": [
    {"mode": "OCEAN", "scope": {"origin_port": "CNSHA", "dest_port": "USLAX", "equipment": "40HC"},
     "currency": "USD", "charges": [{"name": "Ocean Freight", "uom": "per_cnt", "rate": 2000}]}
  ]
}`
