package store

// JXA scripts for the DEVONthink backend. Each script is a complete
// program: values arrive through argv, never by interpolation into the
// source, and the result is a single JSON envelope on stdout. The search
// is an exact name match, post-filtered because the query syntax is
// tolerant about diacritics.

const lookupScript = `
function findRecord(dt, title, dbName) {
	let scope = null;
	if (dbName) {
		const dbs = dt.databases().filter(function(d) { return d.name() === dbName; });
		if (dbs.length > 0) scope = dbs[0].root();
	}
	const quoted = "name=='" + title.replace(/'/g, "\\'") + "'";
	const hits = scope ? dt.search(quoted, {in: scope}) : dt.search(quoted);
	for (let i = 0; i < hits.length; i++) {
		if (hits[i].name() === title) return hits[i];
	}
	return null;
}
function run(argv) {
	const title = argv[0], dbName = argv[1];
	try {
		const dt = Application("DEVONthink 3");
		const rec = findRecord(dt, title, dbName);
		if (!rec) return JSON.stringify({ok: false, error: "not_found"});
		return JSON.stringify({ok: true, uuid: rec.uuid(), name: rec.name(), body: rec.plainText()});
	} catch (e) {
		return JSON.stringify({ok: false, error: String(e)});
	}
}
`

const createScript = `
function run(argv) {
	const title = argv[0], body = argv[1], url = argv[2], tags = argv[3];
	const dbName = argv[4], groupPath = argv[5];
	try {
		const dt = Application("DEVONthink 3");
		let db = dt.currentDatabase();
		if (dbName) {
			const dbs = dt.databases().filter(function(d) { return d.name() === dbName; });
			if (dbs.length > 0) db = dbs[0];
		}
		const group = dt.createLocation("/" + groupPath, {in: db});
		const props = {name: title, type: "markdown", content: body};
		if (url) props.URL = url;
		const rec = dt.createRecordWith(props, {in: group});
		if (!rec) return JSON.stringify({ok: false, error: "createRecordWith returned nothing"});
		if (tags) rec.tags = tags.split(",");
		return JSON.stringify({ok: true, uuid: rec.uuid()});
	} catch (e) {
		return JSON.stringify({ok: false, error: String(e)});
	}
}
`

const replaceBodyScript = `
function findRecord(dt, title, dbName) {
	let scope = null;
	if (dbName) {
		const dbs = dt.databases().filter(function(d) { return d.name() === dbName; });
		if (dbs.length > 0) scope = dbs[0].root();
	}
	const quoted = "name=='" + title.replace(/'/g, "\\'") + "'";
	const hits = scope ? dt.search(quoted, {in: scope}) : dt.search(quoted);
	for (let i = 0; i < hits.length; i++) {
		if (hits[i].name() === title) return hits[i];
	}
	return null;
}
function run(argv) {
	const title = argv[0], body = argv[1], dbName = argv[2];
	try {
		const dt = Application("DEVONthink 3");
		const rec = findRecord(dt, title, dbName);
		if (!rec) return JSON.stringify({ok: false, error: "not_found"});
		rec.plainText = body;
		return JSON.stringify({ok: true, uuid: rec.uuid()});
	} catch (e) {
		return JSON.stringify({ok: false, error: String(e)});
	}
}
`

const annotationScript = `
function findRecord(dt, title, dbName) {
	let scope = null;
	if (dbName) {
		const dbs = dt.databases().filter(function(d) { return d.name() === dbName; });
		if (dbs.length > 0) scope = dbs[0].root();
	}
	const quoted = "name=='" + title.replace(/'/g, "\\'") + "'";
	const hits = scope ? dt.search(quoted, {in: scope}) : dt.search(quoted);
	for (let i = 0; i < hits.length; i++) {
		if (hits[i].name() === title) return hits[i];
	}
	return null;
}
function run(argv) {
	const title = argv[0], dbName = argv[1];
	try {
		const dt = Application("DEVONthink 3");
		const rec = findRecord(dt, title, dbName);
		if (!rec) return JSON.stringify({ok: false, error: "not_found"});
		const ann = rec.annotation();
		if (!ann) return JSON.stringify({ok: true, text: ""});
		return JSON.stringify({ok: true, text: ann.plainText()});
	} catch (e) {
		return JSON.stringify({ok: false, error: String(e)});
	}
}
`

const replaceAnnotationScript = `
function findRecord(dt, title, dbName) {
	let scope = null;
	if (dbName) {
		const dbs = dt.databases().filter(function(d) { return d.name() === dbName; });
		if (dbs.length > 0) scope = dbs[0].root();
	}
	const quoted = "name=='" + title.replace(/'/g, "\\'") + "'";
	const hits = scope ? dt.search(quoted, {in: scope}) : dt.search(quoted);
	for (let i = 0; i < hits.length; i++) {
		if (hits[i].name() === title) return hits[i];
	}
	return null;
}
function run(argv) {
	const title = argv[0], text = argv[1], dbName = argv[2];
	try {
		const dt = Application("DEVONthink 3");
		const rec = findRecord(dt, title, dbName);
		if (!rec) return JSON.stringify({ok: false, error: "not_found"});
		let ann = rec.annotation();
		if (ann) {
			ann.plainText = text;
		} else {
			const db = rec.database();
			const group = dt.createLocation("/Annotations", {in: db});
			const note = dt.createRecordWith(
				{name: rec.name() + " (Annotation)", type: "markdown", content: text},
				{in: group});
			rec.annotation = note;
		}
		return JSON.stringify({ok: true, uuid: rec.uuid()});
	} catch (e) {
		return JSON.stringify({ok: false, error: String(e)});
	}
}
`
