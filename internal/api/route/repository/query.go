package routeRepository

const (
	queryCreateRoute = `
		INSERT INTO routes (
			id,
			photo_id,
			title,
			grade,
			created_at,
			updated_at
		) VALUES (
			:id,
			:photo_id,
			:title,
			:grade,
			:created_at,
			:updated_at
		)
	`

	queryGetRouteByID = `
		SELECT
			id,
			photo_id,
			title,
			grade,
			created_at,
			updated_at
		FROM routes
		WHERE id = :id
	`

	queryGetRoutesByPhoto = `
		SELECT
			id,
			photo_id,
			title,
			grade,
			created_at,
			updated_at
		FROM routes
		WHERE photo_id = :photo_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountRoutesByPhoto = `
		SELECT COUNT(*) FROM routes
		WHERE photo_id = :photo_id
	`

	queryGetAllRoutes = `
		SELECT
			id,
			photo_id,
			title,
			grade,
			created_at,
			updated_at
		FROM routes
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountAllRoutes = `
		SELECT COUNT(*) FROM routes
	`

	queryUpdateRoute = `
		UPDATE routes
		SET
			title = :title,
			grade = :grade,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryDeleteRoute = `
		DELETE FROM routes
		WHERE id = :id
	`

	queryCreateHold = `
		INSERT INTO route_holds (
			id,
			route_id,
			detected_hold_id,
			hold_order,
			label_x,
			label_y,
			note,
			created_at
		) VALUES (
			:id,
			:route_id,
			:detected_hold_id,
			:hold_order,
			:label_x,
			:label_y,
			:note,
			:created_at
		)
	`

	queryGetHoldsByRoute = `
		SELECT
			id,
			route_id,
			detected_hold_id,
			hold_order,
			label_x,
			label_y,
			note,
			created_at
		FROM route_holds
		WHERE route_id = :route_id
		ORDER BY hold_order
	`

	queryUpdateHold = `
		UPDATE route_holds
		SET
			label_x = :label_x,
			label_y = :label_y,
			note = :note
		WHERE id = :id
	`

	querySetHoldOrder = `
		UPDATE route_holds
		SET hold_order = :hold_order
		WHERE id = :id
	`

	queryDeleteHold = `
		DELETE FROM route_holds
		WHERE id = :id
	`

	queryDeleteHoldsByRoute = `
		DELETE FROM route_holds
		WHERE route_id = :route_id
	`
)
