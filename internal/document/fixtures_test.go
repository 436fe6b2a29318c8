package document

// Documents as written by desktop clients on schema 11, trimmed to one entry.

const basicModelJSON = `{
  "css": ".card {\n font-family: arial;\n}",
  "did": 1,
  "flds": [
    {"font": "Arial", "media": [], "name": "Front", "ord": 0, "rtl": false, "size": 20, "sticky": false},
    {"font": "Arial", "media": [], "name": "Back", "ord": 1, "rtl": false, "size": 20, "sticky": false}
  ],
  "id": 1342697561419,
  "latexPost": "\\end{document}",
  "latexPre": "\\documentclass[12pt]{article}",
  "mod": 1342697561,
  "name": "Basic",
  "req": [[0, "all", [0]]],
  "sortf": 0,
  "tags": [],
  "tmpls": [
    {"afmt": "{{FrontSide}}<hr id=answer>{{Back}}", "bafmt": "", "bqfmt": "", "did": null, "name": "Card 1", "ord": 0, "qfmt": "{{Front}}"}
  ],
  "type": 0,
  "usn": -1,
  "vers": []
}`

const defaultDeckJSON = `{
  "browserCollapsed": false,
  "collapsed": false,
  "conf": 1,
  "desc": "",
  "dyn": 0,
  "extendNew": 10,
  "extendRev": 50,
  "id": 1,
  "lrnToday": [0, 0],
  "mod": 1342697561,
  "name": "Default",
  "newToday": [0, 0],
  "revToday": [0, 0],
  "timeToday": [0, 0],
  "usn": 0
}`

const filteredDeckJSON = `{
  "browserCollapsed": false,
  "collapsed": false,
  "delays": null,
  "desc": "",
  "dyn": 1,
  "id": 1700000000000,
  "lrnToday": [12, 0],
  "mod": 1700000000,
  "name": "Filtered Deck 1",
  "newToday": [12, 0],
  "resched": true,
  "revToday": [12, 0],
  "terms": [["deck:current is:due", 100, 0]],
  "usn": -1
}`

const defaultDeckConfigJSON = `{
  "autoplay": true,
  "dyn": false,
  "id": 1,
  "lapse": {"delays": [10], "leechAction": 0, "leechFails": 8, "minInt": 1, "mult": 0},
  "maxTaken": 60,
  "mod": 0,
  "name": "Default",
  "new": {"bury": true, "delays": [1, 10], "initialFactor": 2500, "ints": [1, 4, 7], "order": 1, "perDay": 20, "separate": true},
  "replayq": true,
  "rev": {"bury": true, "ease4": 1.3, "fuzz": 0.05, "ivlFct": 1, "maxIvl": 36500, "minSpace": 1, "perDay": 100},
  "timer": 0,
  "usn": 0
}`

const syncConfigJSON = `{
  "activeDecks": [1],
  "addToCur": true,
  "collapseTime": 1200,
  "curDeck": 1,
  "curModel": "1342697561419",
  "dueCounts": true,
  "estTimes": true,
  "newBury": true,
  "newSpread": 0,
  "nextPos": 1,
  "sortBackwards": false,
  "sortType": "noteFld",
  "timeLim": 0,
  "dayLearnFirst": false
}`
